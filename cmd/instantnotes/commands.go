// cmd/instantnotes/commands.go
package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Long: `List every note in backend order. Notes without a title are shown
as [Draft].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := c.app.Rows()
			if len(rows) == 0 {
				fmt.Fprintln(c.out, "No notes yet.")
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(c.out, "%4d  %s\n", r.ID, r.Label)
			}
			return nil
		},
	}
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := c.app.Open(cmd.Context(), id)
			if err != nil {
				return c.fail(err, "")
			}
			e := c.app.NewEditor(&note)
			fmt.Fprintf(c.out, "%s #%d\n\n%s\n", e.Title(), note.ID, note.Label())
			return nil
		},
	}
}

func newNewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "new [title]",
		Short: "Create a note",
		Long: `Create a note with the given title. Without a title the note is
saved as a draft.

Example:
  instantnotes new "Buy milk"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := c.app.NewEditor(nil)
			if len(args) == 1 {
				if err := e.SetText(args[0]); err != nil {
					return err
				}
			}
			if err := e.Done(cmd.Context()); err != nil {
				return c.fail(err, "")
			}
			fmt.Fprintf(c.out, "Note %d created\n", e.Note().ID)
			return nil
		},
	}
}

func newEditCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Change the title of a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := c.app.Note(id)
			if err != nil {
				return err
			}

			e := c.app.NewEditor(&note)
			// Opened as a preview; the first Done switches to editing.
			if err := e.Done(cmd.Context()); err != nil {
				return err
			}
			if err := e.SetText(args[1]); err != nil {
				return err
			}
			if err := e.Done(cmd.Context()); err != nil {
				return c.fail(err, "")
			}
			fmt.Fprintf(c.out, "Note %d updated\n", id)
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Long: `Delete a note from the backend. This can't be undone, so the command
asks for confirmation unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := c.app.Note(id); err != nil {
				return err
			}

			if !force {
				fmt.Fprint(c.out, "Are you sure you want to delete this note? [y/N]: ")
				answer, _ := bufio.NewReader(c.in).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(c.out, "Cancelled.")
					return nil
				}
			}

			if err := c.app.Delete(cmd.Context(), id); err != nil {
				return c.fail(err, "We can't remove your note right now.")
			}
			fmt.Fprintf(c.out, "Note %d deleted\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
