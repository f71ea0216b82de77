package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/config"
	"github.com/verdant-app/verdant/internal/ui"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive configuration wizard",
		Long:  "Guides you through setting up verdant: enter the backend URL and save the config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(ui.NewPrompter(os.Stdin, os.Stderr))
		},
	}
}

func runInit(prompt *ui.Prompter) error {
	fmt.Println("Welcome to the verdant configuration wizard!")
	fmt.Println()

	current := config.DefaultConfig().APIURL
	if cfg, err := config.Load(cfgFile); err == nil {
		current = cfg.APIURL
	}

	apiURL, err := prompt.Line("Backend API URL", current)
	if err != nil {
		return err
	}
	if err := checkAPIURL(apiURL); err != nil {
		return err
	}

	path, err := config.SaveAPIURL(cfgFile, apiURL)
	if err != nil {
		return err
	}

	fmt.Printf("\nConfig saved to %s\n", path)
	fmt.Println(`You can now run: verdant login`)
	return nil
}

func checkAPIURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("API URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: expected http(s)://host[/path]", raw)
	}
	return nil
}
