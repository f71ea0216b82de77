package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdant-app/verdant/internal/api"
)

func newLogCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent backend requests from the request log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			if cfg.RequestLog == "" {
				return errors.New("request log is disabled; set request_log in the config file")
			}
			entries, err := api.ReadRequestLog(expandHome(cfg.RequestLog), n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), api.FormatRequestLog(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show (0 = all)")
	return cmd
}
