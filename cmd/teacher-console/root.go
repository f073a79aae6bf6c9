package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/babirusa/teacher-console/internal/client"
	"github.com/babirusa/teacher-console/internal/console"
	"github.com/babirusa/teacher-console/internal/notify"
	"github.com/babirusa/teacher-console/internal/session"
	"github.com/babirusa/teacher-console/pkg/config"
	"github.com/babirusa/teacher-console/pkg/logger"
	"github.com/babirusa/teacher-console/pkg/metrics"
	"github.com/babirusa/teacher-console/pkg/storage"
)

// app holds the wired collaborators for one CLI invocation.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	console  *console.Console
	sessions *session.Store
	stopFeed func()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "teacher-console",
		Short:         "Manage pupil accounts, groups and workspaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap()
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newPupilsCmd(a),
		newGroupsCmd(a),
		newAdminCmd(a),
		newExportCmd(a),
		newWorkspaceCmd(a),
	)
	return root, a
}

// bootstrap wires configuration, logging, metrics, the membership client
// and the console shell.
func (a *app) bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logr

	recorder := metrics.NewRecorder()
	if cfg.Metrics.Enabled {
		go func() {
			if err := recorder.Serve(cfg.Metrics.Addr); err != nil {
				logr.Warn("metrics listener failed", zap.Error(err))
			}
		}()
	}

	a.sessions = session.NewStore(cfg.Session)

	feed := notify.NewCenter(cfg.Notify.TTL, cfg.Notify.Backlog, notify.WithDropCounter(recorder))
	a.stopFeed = printFeed(feed)

	exports, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		return fmt.Errorf("prepare exports directory: %w", err)
	}

	membership := client.New(cfg.Backend.BaseURL, a.sessions, client.Options{
		Timeout:       cfg.Backend.Timeout,
		AdminPassword: cfg.Admin.Password,
		Logger:        logr,
		Metrics:       recorder,
	})

	a.console = console.New(membership, a.sessions, feed, exports, recorder, logr)
	return nil
}

// printFeed mirrors notifications to stderr as they arrive and returns a
// stop func.
func printFeed(feed *notify.Center) func() {
	ch, cancel := feed.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := range ch {
			prefix := "·"
			if n.Level == notify.LevelError {
				prefix = "!"
			}
			fmt.Fprintf(os.Stderr, "%s %s\n", prefix, n.Text)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (a *app) shutdown() {
	if a.console != nil {
		a.console.Close()
	}
	if a.stopFeed != nil {
		a.stopFeed()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func fatalIfUnwired(a *app) {
	if a.console == nil {
		log.Fatal("command executed before bootstrap")
	}
}
