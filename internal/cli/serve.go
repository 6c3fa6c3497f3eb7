package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sourcelens/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes lookup, scoring, counternarrative selection and content
analysis as a JSON API, plus /health and Prometheus /metrics.

The server runs until SIGINT or SIGTERM, then drains in-flight requests.

Example:
  sourcelens serve
  sourcelens serve --addr :9000 --db ./sources.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}

	srv := server.New(server.Deps{
		Config:   a.cfg,
		Logger:   server.NewLogger(a.cfg.Log),
		Store:    a.store,
		Usage:    a.tracker,
		Fetcher:  a.fetcher,
		Analyzer: a.analyzer,
		Provider: a.provider,
	})

	return srv.Run(context.Background())
}
