// Package cli wires the API client, session store and views into the
// nascloud command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheGhoul27/NAS-Cloud/internal/config"
	"github.com/TheGhoul27/NAS-Cloud/internal/logging"
	"github.com/TheGhoul27/NAS-Cloud/internal/metrics"
	"github.com/TheGhoul27/NAS-Cloud/pkg/client"
	"github.com/TheGhoul27/NAS-Cloud/pkg/models"
	"github.com/TheGhoul27/NAS-Cloud/pkg/retry"
	"github.com/TheGhoul27/NAS-Cloud/pkg/session"
)

// app carries everything a command needs once flags are resolved.
type app struct {
	cfg    *config.Config
	client *client.Client
	store  *session.Store
	mctx   models.Context
	yes    bool
}

// NewRootCommand builds the nascloud command tree. Configuration comes from
// the environment and can be overridden per invocation with flags.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "nascloud",
		Short: "NAS Cloud command line client",
		Long: `nascloud talks to a NAS Cloud server: browse and search the drive and
photos trees, upload files in batches, and manage the trash.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("server", "", "Server URL (overrides NASCLOUD_SERVER_URL)")
	rootCmd.PersistentFlags().String("context", "", "Context tree: drive or photos (overrides NASCLOUD_CONTEXT)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.yes, "yes", false, "Skip confirmation prompts")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.init(cmd)
	}

	rootCmd.AddCommand(newLoginCommand(a))
	rootCmd.AddCommand(newRegisterCommand(a))
	rootCmd.AddCommand(newLogoutCommand(a))
	rootCmd.AddCommand(newLsCommand(a))
	rootCmd.AddCommand(newBrowseCommand(a))
	rootCmd.AddCommand(newDownloadCommand(a))
	rootCmd.AddCommand(newMkdirCommand(a))
	rootCmd.AddCommand(newRmCommand(a))
	rootCmd.AddCommand(newUploadCommand(a))
	rootCmd.AddCommand(newSearchCommand(a))
	rootCmd.AddCommand(newRecentCommand(a))
	rootCmd.AddCommand(newStorageCommand(a))
	rootCmd.AddCommand(newTrashCommand(a))

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	defer logging.Sync()
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.ServerURL = s
	}
	if c, _ := cmd.Flags().GetString("context"); c != "" {
		mctx := models.Context(c)
		if !mctx.Valid() {
			return fmt.Errorf("invalid context %q: must be drive or photos", c)
		}
		cfg.Context = mctx
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		go metrics.Serve(cfg.MetricsAddr)
	}

	store := session.NewStore()

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.RetryAttempts

	a.cfg = cfg
	a.store = store
	a.mctx = cfg.Context
	a.client = client.New(client.Config{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
		Retry:   policy,
	})

	if sess, err := store.Load(); err == nil {
		a.client.SetAuthToken(sess.Token)
	}
	return nil
}

// requireSession ensures a stored session exists and is not expired.
func (a *app) requireSession() error {
	sess, err := a.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return errors.New("not logged in: run 'nascloud login' first")
		}
		return err
	}
	if sess.Expired(0) {
		a.store.Clear()
		return errors.New("session expired: run 'nascloud login' again")
	}
	a.client.SetAuthToken(sess.Token)
	return nil
}

// handleAuthErr clears the stored session when the server rejected it, so
// the next invocation prompts for a fresh login instead of failing again.
func (a *app) handleAuthErr(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.store.Clear()
		a.client.ClearAuthToken()
		return errors.New("session rejected by server: run 'nascloud login' again")
	}
	return err
}
