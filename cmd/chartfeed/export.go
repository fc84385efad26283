package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ChartFeed/internal/export"
	"ChartFeed/internal/model"
)

func newExportCmd() *cobra.Command {
	var from, to, period, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the raw history series behind a chart to a parquet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			pair, err := a.currencies.Pair(from, to)
			if err != nil {
				return err
			}
			p, err := a.charts.Provider(pair.From, pair.To, model.PeriodType(period))
			if err != nil {
				return err
			}
			series, err := p.FetchSeries(context.Background())
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := export.FileName(outDir, pair, model.PeriodType(period))
			if err := export.WriteSeries(path, pair, p.Granularity(), series); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "BTC", "Base currency code or title")
	cmd.Flags().StringVar(&to, "to", "USD", "Quote currency code or title")
	cmd.Flags().StringVar(&period, "period", string(model.PeriodTypeMonth), "Period type (hour, day, week, month, 3-month, 6-month, year)")
	cmd.Flags().StringVar(&outDir, "out", "./data", "Output directory for parquet files")
	return cmd
}
