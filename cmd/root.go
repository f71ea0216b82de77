package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/config"
)

var (
	cfgFile     string
	apiURLFlag  string
	timeoutFlag time.Duration
	plainFlag   bool

	// Package-level version info, set by Execute().
	appVersion string
	appCommit  string
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	appVersion = version
	appCommit = commit

	rootCmd := &cobra.Command{
		Use:   "verdant",
		Short: "Plant care from the terminal",
		Long: "verdant searches plant care guides, keeps your plants in named collections,\n" +
			"asks the AI garden planner for layouts, and takes part in the community forum.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/verdant/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "override the backend base URL")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "override the per-request timeout (e.g. 10s)")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "disable colors and markdown rendering")

	// Subcommands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newCollectionsCmd())
	rootCmd.AddCommand(newPlantsCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newForumCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newVersionCmd(date))

	if err := rootCmd.Execute(); err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// displayVersion returns a formatted version string, e.g. "v0.3.1 (abc1234)".
func displayVersion() string {
	v := "v" + appVersion
	if appCommit != "" && appCommit != "none" {
		v += " (" + appCommit + ")"
	}
	return v
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flags override config values
	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}
	if timeoutFlag > 0 {
		cfg.Timeout = config.Duration(timeoutFlag)
	}
	if plainFlag {
		cfg.Output.Color = "never"
		cfg.Output.Markdown = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// shownError marks an error whose message the command already printed.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// isSessionExpired reports whether err ended the session.
func isSessionExpired(err error) bool {
	return errors.Is(err, api.ErrSessionExpired)
}
