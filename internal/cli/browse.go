package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/TheGhoul27/NAS-Cloud/pkg/media"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/view"
)

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the folder tree interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			v := view.NewFolderView(a.client, a.mctx, nil)
			for {
				if err := v.Refresh(cmd.Context()); err != nil {
					return a.handleAuthErr(err)
				}

				opts := []huh.Option[string]{}
				if v.Path() != "" {
					opts = append(opts, huh.NewOption("..", ".."))
				}
				for _, e := range v.Entries() {
					if e.IsDirectory {
						opts = append(opts, huh.NewOption(e.Name+"/", "d:"+e.Name))
					} else {
						label := fmt.Sprintf("%s (%s)", e.Name, humanSize(e.Size))
						opts = append(opts, huh.NewOption(label, "f:"+e.Name))
					}
				}
				opts = append(opts, huh.NewOption("[search]", "search"))
				opts = append(opts, huh.NewOption("[quit]", "quit"))

				var choice string
				form := huh.NewForm(huh.NewGroup(
					huh.NewSelect[string]().
						Title("/" + v.Path()).
						Options(opts...).
						Value(&choice),
				))
				if err := form.Run(); err != nil {
					return err
				}

				switch {
				case choice == "quit":
					return nil
				case choice == "search":
					if err := a.runSearch(cmd.Context()); err != nil {
						return err
					}
				case choice == "..":
					v.NavigateUp()
				case strings.HasPrefix(choice, "d:"):
					if err := v.NavigateInto(strings.TrimPrefix(choice, "d:")); err != nil {
						return err
					}
				case strings.HasPrefix(choice, "f:"):
					name := strings.TrimPrefix(choice, "f:")
					for _, e := range v.Entries() {
						if e.Name == name {
							fmt.Printf("%s  %s  %s  %s\n", e.Name,
								media.Classify(e.Name, e.MimeType),
								humanSize(e.Size),
								e.ModifiedAt.Format("2006-01-02 15:04"))
						}
					}
				}
			}
		},
	}
}

// runSearch prompts for a query and runs it through the debounced search
// view, so keystroke batching and stale-result discard behave the same as
// in an interactive session.
func (a *app) runSearch(ctx context.Context) error {
	var query string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Search query").Value(&query),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if len(strings.TrimSpace(query)) < 2 {
		fmt.Println("Query must be at least 2 characters")
		return nil
	}

	done := make(chan struct{})
	var found []models.FileEntry
	var searchErr error
	sv := view.NewSearchView(a.client, a.mctx, a.cfg.SearchDebounce,
		func(q string, items []models.FileEntry) {
			found = items
			close(done)
		},
		func(q string, err error) {
			searchErr = err
			close(done)
		})
	sv.SetQuery(ctx, query, "")
	<-done

	if searchErr != nil {
		return a.handleAuthErr(searchErr)
	}
	if len(found) == 0 {
		fmt.Println("No matches")
		return nil
	}
	printEntries(found)
	return nil
}
