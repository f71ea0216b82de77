package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/config"
	"github.com/verdant-app/verdant/internal/session"
	"github.com/verdant-app/verdant/internal/ui"
)

// app is the wiring shared by every command that talks to the backend.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	out      *ui.Printer
	prompt   *ui.Prompter
	store    session.Store
	sessions *session.Manager
	client   *api.Client

	closers []io.Closer
}

func newApp() (*app, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	logger, logCloser, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	a.out = ui.NewPrinter(os.Stdout, os.Stderr, ui.Options{
		Plain:    ui.UsePlain(cfg.Output.Color, os.Stdout),
		Markdown: cfg.Output.Markdown,
	})
	a.prompt = ui.NewPrompter(os.Stdin, os.Stderr)

	dbPath, err := cfg.StateDBPath()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("state db path: %w", err)
	}
	store, err := session.NewSQLiteStore(dbPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open state store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	a.sessions = session.NewManager(store, ui.NewNavigator(a.out), logger.With("component", "session"))

	opts := []api.Option{
		api.WithTimeout(cfg.Timeout.Std()),
		api.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		api.WithLogger(logger.With("component", "api")),
	}
	if cfg.RequestLog != "" {
		rl, err := api.NewRequestLogger(expandHome(cfg.RequestLog))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rl)
		opts = append(opts, api.WithRequestLog(rl))
	}
	a.client = api.New(cfg.APIURL, a.sessions, opts...)

	logger.Debug("verdant starting", "version", appVersion, "api_url", cfg.APIURL, "state_db", dbPath)
	return a, nil
}

// Close releases the store and log files in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// showFlash prints the pending one-shot message, if any.
func (a *app) showFlash() {
	msg, err := a.sessions.TakeFlash()
	if err != nil {
		a.logger.Warn("read flash message", "error", err)
		return
	}
	a.out.Notice(msg)
}

// fail prints err for the user and marks it as shown. Session expiry has
// already been announced by the navigator; only the flash is printed.
func (a *app) fail(err error) error {
	if err == nil {
		return nil
	}
	if isSessionExpired(err) {
		a.showFlash()
	} else {
		a.out.Error(api.Message(err))
	}
	return &shownError{err: err}
}

// withApp builds the app, runs fn under a signal-aware context and tears
// everything down afterwards.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.showFlash()

		ctx, stop := commandContext(cmd.Context())
		defer stop()
		return fn(ctx, a, args)
	}
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
