package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/naka-gawa/contrib-stats/internal/usecase"
	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Lists the repositories available for selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		var logOut io.Writer
		if verbose {
			logOut = os.Stderr
		}
		logger := newLogger(logOut, cfg.LogLevel, verbose)

		fetcher, err := newFetcher(cfg, logger, nil)
		if err != nil {
			return fmt.Errorf("failed to create gateway: %w", err)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		list := usecase.NewDashboard(fetcher, logger).LoadRepositories(ctx)
		if list.Message != "" {
			return errors.New(list.Message)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tOWNER\tCLONE URL")
		for _, r := range list.Repositories {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Owner, r.CloneURL)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
}
