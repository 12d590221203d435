package cmd

import (
	"io"
	"net/http"

	"github.com/naka-gawa/contrib-stats/internal/config"
	"github.com/naka-gawa/contrib-stats/internal/gateway"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// loadConfig reads the environment and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		cfg.Source = source
	}
	if base, _ := cmd.Flags().GetString("api-base"); base != "" {
		cfg.APIBaseURL = base
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the JSON logger. Output is discarded unless out is non-nil;
// verbose forces debug level over LOG_LEVEL.
func newLogger(out io.Writer, level string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	if out == nil {
		out = io.Discard
	}
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// newFetcher builds the gateway for cfg.Source. progress is handed to the GitHub gateway only.
func newFetcher(cfg *config.Config, logger logrus.FieldLogger, progress io.Writer) (gateway.Fetcher, error) {
	if cfg.Source == config.SourceGitHub {
		g, err := gateway.NewGitHubGateway(cfg.GitHubToken, gateway.NewGitLineCounter(cfg.GitHubToken, logger), progress, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	g, err := gateway.NewBackendGateway(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, logger)
	if err != nil {
		return nil, err
	}
	return g, nil
}
