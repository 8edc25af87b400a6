package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly totals, accounts and recent orders",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, err := openSession(stderrNotifier())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()

	// Orders and accounts are independent; a failure of one still renders
	// the other.
	var (
		g           errgroup.Group
		accounts    []model.Account
		accountsErr error
		ordersErr   error
		stale       bool
	)
	g.Go(func() error {
		_, stale, ordersErr = s.loadOrders(ctx)
		return ordersErr
	})
	g.Go(func() error {
		accounts, accountsErr = s.client.ListAccounts(ctx)
		return accountsErr
	})
	_ = g.Wait()
	if accountsErr != nil {
		fmt.Fprintln(os.Stderr, "  "+cli.RenderNotice("Accounts unavailable: "+accountsErr.Error(), true))
		if ordersErr != nil {
			return errReported
		}
	}

	snap := s.book.Snapshot()
	if stale {
		printStale(snap)
	}

	now := time.Now()
	thisMonth := pipeline.FilterByMonth(snap.Orders, model.ThisMonth, now)
	lastMonth := pipeline.FilterByMonth(snap.Orders, model.LastMonth, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACCOUNT BOOK  " + now.Format("2006-01")))
	fmt.Println()

	if ordersErr == nil {
		rows := [][]string{
			{"Orders", cli.FormatNumber(int64(len(snap.Orders)))},
			{"This month", cli.FormatNumber(int64(len(thisMonth)))},
			{"Last month", cli.FormatNumber(int64(len(lastMonth)))},
			{"---"},
		}
		rows = append(rows, currencyRows("This month", pipeline.Aggregate(snap.Orders, model.GroupByCurrency, model.ThisMonth, now))...)
		rows = append(rows, currencyRows("Last month", pipeline.Aggregate(snap.Orders, model.GroupByCurrency, model.LastMonth, now))...)
		rows = append(rows, []string{"Fetched", cli.FormatFetchedAt(snap.FetchedAt, now)})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))

		fmt.Println("  " + cli.RenderMuted("This month by type"))
		fmt.Print(cli.RenderGroupTotals(pipeline.Aggregate(snap.Orders, model.GroupByType, model.ThisMonth, now), 24))
		fmt.Println()
	}

	if accountsErr == nil {
		fmt.Print(cli.RenderTable(cli.AccountsTable(accounts)))
	}
	if ordersErr != nil {
		return errReported
	}
	return nil
}

func currencyRows(label string, totals []model.GroupTotal) [][]string {
	if len(totals) == 0 {
		return [][]string{{label, "-"}}
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{label, cli.FormatMoney(t.Total, t.Group)})
	}
	return rows
}
