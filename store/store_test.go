// store/store_test.go
package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vinizap/instantnotes/domain"
)

func TestAddThenUpdate(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(domain.Note{ID: 1, Title: "A"}))
	require.NoError(t, s.Add(domain.Note{ID: 2, Title: "B"}))

	assert.True(t, s.Update(domain.Note{ID: 1, Title: "A-edited"}))

	assert.Equal(t, []domain.Note{
		{ID: 1, Title: "A-edited"},
		{ID: 2, Title: "B"},
	}, s.All())
}

func TestRemove(t *testing.T) {
	s := New()
	s.Replace([]domain.Note{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})

	assert.True(t, s.Remove(domain.Note{ID: 1, Title: "A"}))
	assert.Equal(t, []domain.Note{{ID: 2, Title: "B"}}, s.All())

	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestRemoveIgnoresTitle(t *testing.T) {
	s := New()
	s.Replace([]domain.Note{{ID: 1, Title: "A"}})

	assert.True(t, s.Remove(domain.Note{ID: 1, Title: "something else"}))
	assert.Zero(t, s.Len())
}

func TestRemoveDropsEveryDuplicate(t *testing.T) {
	s := New()
	s.Replace([]domain.Note{{ID: 3, Title: "x"}, {ID: 4, Title: "y"}, {ID: 3, Title: "z"}})

	assert.True(t, s.Remove(domain.Note{ID: 3}))
	assert.Equal(t, []domain.Note{{ID: 4, Title: "y"}}, s.All())
}

func TestUpdateTouchesFirstMatchOnly(t *testing.T) {
	s := New()
	s.Replace([]domain.Note{{ID: 3, Title: "x"}, {ID: 3, Title: "z"}})

	s.Update(domain.Note{ID: 3, Title: "new"})
	assert.Equal(t, []domain.Note{{ID: 3, Title: "new"}, {ID: 3, Title: "z"}}, s.All())
}

func TestMissingIDIsNoop(t *testing.T) {
	s := New()
	s.Replace([]domain.Note{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})
	before := s.All()

	assert.False(t, s.Update(domain.Note{ID: 9, Title: "nope"}))
	assert.False(t, s.Remove(domain.Note{ID: 9}))
	assert.Equal(t, before, s.All())
}

func TestAddRejects(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(domain.Note{ID: 1, Title: "A"}))

	assert.ErrorIs(t, s.Add(domain.Note{ID: 1, Title: "again"}), ErrDuplicateID)
	assert.ErrorIs(t, s.Add(domain.NewDraft()), ErrUnassignedID)
	assert.Equal(t, []domain.Note{{ID: 1, Title: "A"}}, s.All())
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		notes []domain.Note
		want  int
	}{
		{"single", []domain.Note{{ID: 1}}, 2},
		{"ascending", []domain.Note{{ID: 1}, {ID: 5}}, 6},
		// The largest id wins even when it is not the last one added.
		{"unordered", []domain.Note{{ID: 5}, {ID: 1}}, 6},
		{"negative", []domain.Note{{ID: -7}, {ID: -3}}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Replace(tt.notes)

			got, err := s.NextID()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextIDEmpty(t *testing.T) {
	_, err := New().NextID()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestReplaceCopiesInput(t *testing.T) {
	in := []domain.Note{{ID: 1, Title: "A"}}
	s := New()
	s.Replace(in)

	in[0].Title = "mutated"
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)
}

func TestConcurrentMutations(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, s.Add(domain.Note{ID: id}))
			s.Update(domain.Note{ID: id, Title: "t"})
			_, _ = s.NextID()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	next, err := s.NextID()
	require.NoError(t, err)
	assert.Equal(t, 51, next)
}

func TestAddNext(t *testing.T) {
	s := New()
	assert.Equal(t, domain.Note{ID: FirstID, Title: "a"}, s.AddNext("a"))

	require.NoError(t, s.Add(domain.Note{ID: 7, Title: "b"}))
	assert.Equal(t, domain.Note{ID: 8, Title: "c"}, s.AddNext("c"))
	assert.Equal(t, []domain.Note{
		{ID: 1, Title: "a"},
		{ID: 7, Title: "b"},
		{ID: 8, Title: "c"},
	}, s.All())
}

func TestConcurrentAddNextDrawsDistinctIDs(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(domain.Note{ID: 5}))

	const n = 200
	ids := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = s.AddNext("c").ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d drawn twice", id)
		seen[id] = true
	}
	assert.Equal(t, n+1, s.Len())
	next, err := s.NextID()
	require.NoError(t, err)
	assert.Equal(t, 5+n+1, next)
}

func genNotes(t *rapid.T, minLen int) []domain.Note {
	ids := rapid.SliceOfNDistinct(rapid.IntRange(0, 1000), minLen, 20, rapid.ID[int]).Draw(t, "ids")
	notes := make([]domain.Note, len(ids))
	for i, id := range ids {
		notes[i] = domain.Note{ID: id, Title: rapid.StringN(0, 12, -1).Draw(t, "title")}
	}
	return notes
}

func TestPropertyAddThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		s.Replace(genNotes(t, 0))
		n := domain.Note{
			ID:    rapid.IntRange(1001, 2000).Draw(t, "id"),
			Title: rapid.String().Draw(t, "title"),
		}

		if err := s.Add(n); err != nil {
			t.Fatalf("add: %v", err)
		}
		got, ok := s.Get(n.ID)
		if !ok || got != n {
			t.Fatalf("get(%d) = %v, %v; want %v", n.ID, got, ok, n)
		}
		all := s.All()
		if all[len(all)-1] != n {
			t.Fatalf("added note is not last: %v", all)
		}
	})
}

func TestPropertyUpdateChangesOnlyTarget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notes := genNotes(t, 1)
		s := New()
		s.Replace(notes)
		target := rapid.SampledFrom(notes).Draw(t, "target")
		title := rapid.String().Draw(t, "new title")

		s.Update(domain.Note{ID: target.ID, Title: title})

		after := s.All()
		if len(after) != len(notes) {
			t.Fatalf("len changed: %d -> %d", len(notes), len(after))
		}
		for i, n := range after {
			want := notes[i]
			if n.ID == target.ID {
				want.Title = title
			}
			if n != want {
				t.Fatalf("position %d = %v, want %v", i, n, want)
			}
		}
	})
}

func TestPropertyRemoveThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notes := genNotes(t, 1)
		s := New()
		s.Replace(notes)
		target := rapid.SampledFrom(notes).Draw(t, "target")

		s.Remove(target)

		if _, ok := s.Get(target.ID); ok {
			t.Fatalf("note %d still present", target.ID)
		}
		if s.Len() != len(notes)-1 {
			t.Fatalf("len = %d, want %d", s.Len(), len(notes)-1)
		}
	})
}

func TestPropertyNextIDIsFresh(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notes := genNotes(t, 0)
		s := New()
		s.Replace(notes)

		next, err := s.NextID()
		if len(notes) == 0 {
			if err != ErrEmpty {
				t.Fatalf("err = %v, want ErrEmpty", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("next id: %v", err)
		}
		if _, taken := s.Get(next); taken {
			t.Fatalf("next id %d already used", next)
		}
		if err := s.Add(domain.Note{ID: next}); err != nil {
			t.Fatalf("add next id: %v", err)
		}
	})
}
