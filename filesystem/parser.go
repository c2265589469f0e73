// filesystem/parser.go
package filesystem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vinizap/instantnotes/domain"
)

const (
	noteExt   = ".md"
	fenceLine = "---"
)

// record is a note as kept on disk: YAML frontmatter followed by a markdown
// heading with the title.
type record struct {
	ID        int       `yaml:"id"`
	Title     string    `yaml:"title"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`

	path string
}

func (r *record) note() domain.Note {
	return domain.Note{ID: r.ID, Title: r.Title}
}

func notePath(dir string, id int) string {
	return filepath.Join(dir, strconv.Itoa(id)+noteExt)
}

// idFromPath recovers the id encoded in a note file name.
func idFromPath(path string) (int, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, noteExt) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(base, noteExt))
	return id, err == nil
}

func readRecord(path string) (*record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rec := &record{path: path}

	front, ok := frontmatter(data)
	if !ok {
		return nil, fmt.Errorf("%s: invalid frontmatter format", path)
	}

	if err := yaml.Unmarshal(front, rec); err != nil {
		return nil, fmt.Errorf("%s: failed to parse frontmatter: %w", path, err)
	}
	return rec, nil
}

// frontmatter returns the text between an opening "---" line and the next
// line that is exactly "---". A "---" inside a value does not end it.
func frontmatter(data []byte) ([]byte, bool) {
	line, rest, _ := bytes.Cut(data, []byte("\n"))
	if string(bytes.TrimRight(line, "\r")) != fenceLine {
		return nil, false
	}
	for off := 0; off < len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		next := len(rest)
		if end >= 0 {
			next = off + end + 1
		}
		if string(bytes.TrimRight(rest[off:next], "\r\n")) == fenceLine {
			return rest[:off], true
		}
		off = next
	}
	return nil, false
}

func writeRecord(rec *record) error {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	encoder.Close()

	buf.WriteString("---\n\n")
	if rec.Title != "" {
		fmt.Fprintf(&buf, "# %s\n", rec.Title)
	}

	// Write then rename so readers never see a half written file.
	tmp := rec.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, rec.path)
}

// maxFileID returns the largest id among note file names in dir, or 0. Files
// that fail to parse still hold their id.
func maxFileID(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	top := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := idFromPath(entry.Name()); ok && id > top {
			top = id
		}
	}
	return top, nil
}

// listRecords reads every note file in dir ordered by id. Files that do not
// parse are skipped.
func listRecords(dir string) ([]*record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var recs []*record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), noteExt) {
			continue
		}

		rec, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip invalid notes
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}
