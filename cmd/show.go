package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/naka-gawa/contrib-stats/internal/export"
	"github.com/naka-gawa/contrib-stats/internal/render"
	"github.com/naka-gawa/contrib-stats/internal/usecase"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <repository>",
	Short: "Shows per-contributor commit statistics of one repository",
	Long: `Loads the repository list, then fetches commits, lines of code and contributors
of the named repository and prints the aggregated statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		format, _ := cmd.Flags().GetString("format")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Logs and the progress spinner go to stderr only when verbose.
		var logOut, progress io.Writer
		if verbose {
			logOut, progress = os.Stderr, os.Stderr
		}
		logger := newLogger(logOut, cfg.LogLevel, verbose)

		fetcher, err := newFetcher(cfg, logger, progress)
		if err != nil {
			return fmt.Errorf("failed to create gateway: %w", err)
		}
		dashboard := usecase.NewDashboard(fetcher, logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		if list := dashboard.LoadRepositories(ctx); list.Message != "" {
			return errors.New(list.Message)
		}
		view := dashboard.Select(ctx, args[0])
		if view.State == usecase.StateError {
			return errors.New(view.Message)
		}
		report := view.Report

		if xlsxPath != "" {
			if err := writeXLSXFile(xlsxPath, report); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		switch format {
		case "text":
			return render.Text(out, report)
		case "html":
			return render.Page(out, render.PageData{
				Repos: dashboard.Repositories(),
				View:  view,
			})
		case "json":
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report to JSON: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}
		return fmt.Errorf("unknown format %q (want text, html or json)", format)
	},
}

func writeXLSXFile(path string, report *domain.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return export.WriteXLSX(f, report)
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("format", "f", "text", "Output format: text, html or json")
	showCmd.Flags().String("xlsx", "", "Also write the report to this .xlsx file")
}
