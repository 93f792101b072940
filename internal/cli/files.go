package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TheGhoul27/NAS-Cloud/pkg/media"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
)

func newLsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			items, err := a.client.ListFiles(cmd.Context(), path, a.mctx)
			if err != nil {
				return a.handleAuthErr(err)
			}
			printEntries(items)
			return nil
		},
	}
}

func newMkdirCommand(a *app) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.client.CreateFolder(cmd.Context(), args[0], parent, a.mctx); err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Printf("Created folder %s\n", joinDisplayPath(parent, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "in", "", "Parent folder path (default: root)")
	return cmd
}

func newRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Move a file or folder to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.client.DeleteFile(cmd.Context(), args[0], a.mctx); err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Printf("Moved %s to trash\n", args[0])
			return nil
		},
	}
}

func newDownloadCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <path>",
		Short: "Download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			rc, err := a.client.DownloadFile(cmd.Context(), args[0], a.mctx)
			if err != nil {
				return a.handleAuthErr(err)
			}
			defer rc.Close()

			if output == "-" {
				_, err := io.Copy(os.Stdout, rc)
				return err
			}

			dest := output
			if dest == "" {
				dest = filepath.Base(args[0])
			}
			f, err := os.Create(dest)
			if err != nil {
				return err
			}
			n, err := io.Copy(f, rc)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			fmt.Printf("Downloaded %s (%s)\n", dest, humanSize(n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file ('-' for stdout; default: the file's name)")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	var fileType string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search files by name (at least 2 characters)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			items, err := a.client.SearchFiles(cmd.Context(), args[0], a.mctx, fileType)
			if err != nil {
				return a.handleAuthErr(err)
			}
			if len(items) == 0 {
				fmt.Println("No matches")
				return nil
			}
			printEntries(items)
			return nil
		},
	}

	cmd.Flags().StringVar(&fileType, "type", "", "Filter by category (image, video, document, ...)")
	return cmd
}

func newRecentCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently modified files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			items, err := a.client.RecentFiles(cmd.Context(), limit, a.mctx)
			if err != nil {
				return a.handleAuthErr(err)
			}
			printEntries(items)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of files")
	return cmd
}

func newStorageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Show storage usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			info, err := a.client.StorageInfo(cmd.Context())
			if err != nil {
				return a.handleAuthErr(err)
			}
			fmt.Printf("Used:  %s\n", humanSize(info.UsedBytes))
			if info.TotalBytes > 0 {
				pct := float64(info.UsedBytes) / float64(info.TotalBytes) * 100
				fmt.Printf("Total: %s (%.1f%% used)\n", humanSize(info.TotalBytes), pct)
			}
			fmt.Printf("Files: %d\n", info.FileCount)
			return nil
		},
	}
}

func printEntries(items []models.FileEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	for _, e := range items {
		if e.IsDirectory {
			fmt.Fprintf(w, "%s/\tfolder\t-\t%s\n", e.Name, e.ModifiedAt.Format("2006-01-02 15:04"))
			continue
		}
		cat := media.Classify(e.Name, e.MimeType)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, cat, humanSize(e.Size), e.ModifiedAt.Format("2006-01-02 15:04"))
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func joinDisplayPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
