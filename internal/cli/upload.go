package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheGhoul27/NAS-Cloud/pkg/media"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/upload"
)

func newUploadCommand(a *app) *cobra.Command {
	var dest string
	var mediaOnly bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files sequentially",
		Long: `Upload one or more files into the destination folder. Files upload one
at a time; a failed file is reported and the rest of the batch continues.
In the photos context, --media-only skips anything that is not an image
or video.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			items := make([]upload.Item, 0, len(args))
			for _, path := range args {
				it, err := upload.ItemFromFile(path)
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}
				items = append(items, it)
			}

			opts := upload.Options{
				OnProgress: func(p int) {
					fmt.Printf("\r%3d%%", p)
				},
				OnItemDone: func(name string, err error) {
					if err == nil {
						fmt.Printf("\r%s: uploaded\n", name)
					} else {
						fmt.Printf("\r%s: %v\n", name, err)
					}
				},
			}
			if mediaOnly || a.mctx == models.ContextPhotos {
				opts.Filter = func(it upload.Item) bool {
					return media.MediaOnly(it.Name, it.MimeType)
				}
			}

			co := upload.NewCoordinator(a.client, a.mctx)
			summary, err := co.Run(cmd.Context(), items, dest, opts)
			if err != nil {
				if errors.Is(err, upload.ErrNoEligibleFiles) {
					return errors.New("no eligible files: only images and videos can be uploaded to photos")
				}
				return a.handleAuthErr(err)
			}

			fmt.Printf("Done: %d uploaded, %d failed\n", len(summary.Succeeded), len(summary.Failed))
			if len(summary.Failed) > 0 {
				return fmt.Errorf("%d of %d files failed", len(summary.Failed), len(items))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "to", "", "Destination folder path (default: root)")
	cmd.Flags().BoolVar(&mediaOnly, "media-only", false, "Skip non-media files (implied in the photos context)")
	return cmd
}
