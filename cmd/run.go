package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/octolearn/internal/api"
	"github.com/abhisek/octolearn/internal/app"
	"github.com/abhisek/octolearn/internal/config"
	"github.com/abhisek/octolearn/internal/learn"
	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal, so logs always go to a file.
	logOpts := cfg.LogOptions()
	if logOpts.Path == "" {
		logOpts.Path = config.DefaultLogPath()
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync()

	sessions := session.Open(ctx, st.EntryRepo(), log)

	var svc api.Service = api.NewClient(cfg.APIBase, api.WithTimeout(cfg.RequestTimeout))
	svc = api.WithJournal(svc, st.EventRepo(), log)
	svc = api.WithRetry(svc, api.DefaultRetryConfig(cfg.RetryAttempts))

	orch := learn.New(ctx, svc, sessions, log, learn.Config{
		Interval: cfg.TypewriterInterval,
	})
	orch.Hydrate()

	log.Info("starting tui", "api_base", cfg.APIBase, "sessions", sessions.Len())
	return app.Run(orch)
}
