package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/TheGhoul27/NAS-Cloud/pkg/view"
)

func newTrashCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Manage soft-deleted files",
	}

	cmd.AddCommand(newTrashListCommand(a))
	cmd.AddCommand(newTrashRestoreCommand(a))
	cmd.AddCommand(newTrashPurgeCommand(a))
	cmd.AddCommand(newTrashEmptyCommand(a))
	cmd.AddCommand(newTrashCleanupCommand(a))
	return cmd
}

func (a *app) trashView() *view.TrashView {
	return view.NewTrashView(a.client, a.mctx, nil)
}

func newTrashListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trash contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			tv := a.trashView()
			if err := tv.Refresh(cmd.Context()); err != nil {
				return a.handleAuthErr(err)
			}

			entries := tv.Entries()
			if len(entries) == 0 {
				fmt.Println("Trash is empty")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tNAME\tPATH\tSIZE\tEXPIRES")
			for _, e := range entries {
				expiry := fmt.Sprintf("%dd", e.ExpiresInDays)
				switch view.ExpiryUrgency(e.ExpiresInDays) {
				case view.UrgencyCritical:
					expiry += " !!"
				case view.UrgencyWarning:
					expiry += " !"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.TrashID, e.OriginalName, e.OriginalPath, humanSize(e.Size), expiry)
			}
			return nil
		},
	}
}

func newTrashRestoreCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <trash-id>",
		Short: "Restore an item to its original location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.trashView().Restore(cmd.Context(), args[0]); err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Println("Restored")
			return nil
		},
	}
}

func newTrashPurgeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <trash-id>",
		Short: "Permanently delete one item (cannot be undone)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Permanently delete %s? This cannot be undone.", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted")
				return nil
			}
			if err := a.trashView().PermanentlyDelete(cmd.Context(), args[0]); err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Println("Permanently deleted")
			return nil
		},
	}
}

func newTrashEmptyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "empty",
		Short: "Permanently delete everything in the trash",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Empty the %s trash? This cannot be undone.", a.mctx))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted")
				return nil
			}
			n, err := a.trashView().EmptyTrash(cmd.Context())
			if err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Printf("Purged %d items\n", n)
			return nil
		},
	}
}

func newTrashCleanupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Ask the server to purge expired trash entries now",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			n, err := a.client.CleanupTrash(cmd.Context(), a.mctx)
			if err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Printf("Purged %d expired items\n", n)
			return nil
		},
	}
}

// confirm gates destructive operations. --yes skips the prompt for scripts.
func (a *app) confirm(title string) (bool, error) {
	if a.yes {
		return true, nil
	}
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
