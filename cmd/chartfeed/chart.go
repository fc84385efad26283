package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"ChartFeed/internal/model"
)

func newChartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chart <from> <to> <period>",
		Short: "Print chart data for a currency pair as JSON",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			pair, err := a.currencies.Pair(args[0], args[1])
			if err != nil {
				return err
			}
			res, err := a.charts.Compute(context.Background(), pair.From, pair.To, model.PeriodType(args[2]))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"pair":     pair.String(),
				"period":   res.Period,
				"provider": res.Provider,
				"columns":  res.Columns,
				"summary":  res.Summary,
			})
		},
	}
}
