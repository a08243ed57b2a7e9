package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nearby-places/internal/calculator"
	"nearby-places/internal/catalog"
	"nearby-places/internal/config"
)

var (
	catalogPath string
	resultLimit int
)

var rootCmd = &cobra.Command{
	Use:   "nearby-places",
	Short: "Rank a catalog of places by distance from a coordinate",
	Long: `nearby-places ranks a fixed catalog of places by great-circle distance
from a query coordinate and shows the closest ones.

It can be used as:

- an interactive terminal map where the marker is moved with the arrow keys
- an HTTP service with a websocket stream and batch workbook jobs
- a one-shot command that prints or exports rankings`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (.json or .xlsx), default is the built-in catalog")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "limit", calculator.DefaultLimit, "number of places to show")

	rootCmd.AddCommand(serveCmd, interactiveCmd, nearestCmd, exportCmd)
}

type app struct {
	cfg     config.Config
	catalog *catalog.Catalog
	ranker  *calculator.Ranker
}

// loadApp reads the config and builds the ranker. Flags set on the command
// line take precedence over the config.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = catalogPath
	}
	if cmd.Flags().Changed("limit") {
		cfg.ResultLimit = resultLimit
	}

	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	ranker, err := calculator.NewRanker(c.Points(), cfg.ResultLimit)
	if err != nil {
		return nil, fmt.Errorf("limit %d: %w", cfg.ResultLimit, err)
	}

	return &app{cfg: cfg, catalog: c, ranker: ranker}, nil
}
