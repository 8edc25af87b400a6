package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/pipeline"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Stacked bar chart of spending per day or month, split by type",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&flagMonth, "month", "m", "", "Month: this or last (default from config)")
	chartCmd.Flags().StringVar(&flagBy, "by", "", "Bucket: day or month (default from config)")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	view := configuredView()
	if flagMonth != "" {
		w, err := model.ParseMonthWindow(flagMonth)
		if err != nil {
			return err
		}
		view.Window = w
	}
	if flagBy != "" {
		g, err := model.ParseGranularity(flagBy)
		if err != nil {
			return err
		}
		view.Granularity = g
	}

	s, err := openSession(stderrNotifier())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	snap, stale, err := s.loadOrders(cmd.Context())
	if err != nil {
		return err
	}
	if stale {
		printStale(snap)
	}

	now := time.Now()
	start, end := pipeline.MonthRange(view.Window, now)
	series := pipeline.BuildSeries(snap.Orders, view.Window, view.Granularity, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING BY %s  %s to %s",
		strings.ToUpper(string(view.Granularity)), start.Format("2006-01-02"), end.Format("2006-01-02"))))
	fmt.Println()
	fmt.Print(cli.RenderStackedBars(series, pipeline.SeriesTypes(series), 40))
	fmt.Println()
	return nil
}
