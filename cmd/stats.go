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

var (
	flagGroup string
	flagMonth string
	flagBy    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Totals for this or last month, grouped by type, currency or month",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&flagGroup, "group", "g", "", "Group by: type, currency, month (default from config)")
	statsCmd.Flags().StringVarP(&flagMonth, "month", "m", "", "Month: this or last (default from config)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	view := configuredView()
	if flagGroup != "" {
		g, err := model.ParseStatGroup(flagGroup)
		if err != nil {
			return err
		}
		view.Group = g
	}
	if flagMonth != "" {
		w, err := model.ParseMonthWindow(flagMonth)
		if err != nil {
			return err
		}
		view.Window = w
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
	totals := pipeline.Aggregate(snap.Orders, view.Group, view.Window, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BY %s  %s to %s",
		strings.ToUpper(string(view.Group)), start.Format("2006-01-02"), end.Format("2006-01-02"))))
	fmt.Println()
	fmt.Print(cli.RenderGroupTotals(totals, 30))
	fmt.Println()
	return nil
}
