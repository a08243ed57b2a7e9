package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nearby-places/internal/calculator"
	"nearby-places/internal/excel"
	"nearby-places/internal/jobs"
	"nearby-places/internal/logger"
)

var (
	exportInput  string
	exportOutput string
	exportK      int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rank every point of a Queries sheet and write a Results workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		appLogger, err := logger.New(a.cfg.Env)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer appLogger.Sync()

		k := a.ranker.Limit()
		if cmd.Flags().Changed("count") {
			k = exportK
		}

		f, err := excel.OpenFile(exportInput)
		if err != nil {
			return fmt.Errorf("open %q: %w", exportInput, err)
		}
		defer f.Close()

		queries, err := excel.ReadQueries(f, jobs.QueriesSheet)
		if err != nil {
			return fmt.Errorf("read sheet %s: %w", jobs.QueriesSheet, err)
		}
		appLogger.Info("query points read", zap.String("file", exportInput), zap.Int("queries", len(queries)))

		onProgress := func(current, total int, msg string) {
			appLogger.Debug("progress", zap.Int("current", current), zap.Int("total", total), zap.String("msg", msg))
		}
		onLog := func(msg string) {
			appLogger.Info(msg)
		}

		rows, err := calculator.RankBatch(queries, a.ranker.Catalog(), k, onProgress, onLog)
		if err != nil {
			return err
		}

		if err := excel.WriteResult(exportOutput, rows, jobs.ResultsSheet); err != nil {
			return fmt.Errorf("write %q: %w", exportOutput, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows for %d queries to %s\n", len(rows), len(queries), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "workbook with a Queries sheet")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "result workbook to create")
	exportCmd.Flags().IntVarP(&exportK, "count", "k", 0, "places per query (overrides --limit)")
	_ = exportCmd.MarkFlagRequired("input")
	_ = exportCmd.MarkFlagRequired("output")
}
