package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsereda/declarant/internal/model"
	"github.com/tsereda/declarant/internal/rules"
	"github.com/tsereda/declarant/internal/server"
)

var (
	serveAddr  string
	rulesPath  string
	serveRPS   float64
	serveBurst int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form and report API over HTTP",
	Long: `Serve starts an HTTP server with:
- An upload form for supplier CSVs and optional PFAS dictionaries
- POST / and /api/report returning the report document as JSON
- POST /api/profile for regulatory category/risk lookup
- Per-client rate limiting and a dictionary cache

Example:
  declarant serve
  declarant serve --addr :9090 --rules rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&rulesPath, "rules", "", "optional YAML ruleset overriding the built-in tables")
	serveCmd.Flags().Float64Var(&serveRPS, "rps", 5, "per-client requests per second")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 10, "per-client burst size")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Server.Addr = serveAddr
	cfg.Server.RequestsPerSecond = serveRPS
	cfg.Server.BurstSize = serveBurst
	cfg.Rules.Path = rulesPath

	ruleset := rules.DefaultRuleSet()
	if rulesPath != "" {
		var err error
		ruleset, err = rules.Load(rulesPath)
		if err != nil {
			return fmt.Errorf("load ruleset: %w", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := server.New(cfg, ruleset, logger)

	if err := srv.Run(); err != nil {
		return fmt.Errorf("serve failed: %w", err)
	}
	return nil
}
