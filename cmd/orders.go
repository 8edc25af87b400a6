package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/ledger"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/pipeline"
	"github.com/mgy583/account-book/internal/tui"
)

var (
	flagName     string
	flagType     string
	flagFrom     string
	flagTo       string
	flagPage     int
	flagPageSize int

	flagOrder ledger.OrderInput
	flagYes   bool
)

var ordersCmd = &cobra.Command{
	Use:     "orders",
	Aliases: []string{"ls"},
	Short:   "List orders with filters and paging",
	RunE:    runOrders,
}

var ordersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an order (interactive when --name or --amount is missing)",
	RunE:  runOrdersAdd,
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an order by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersDelete,
}

func init() {
	f := ordersCmd.Flags()
	f.StringVar(&flagName, "name", "", "Name contains (case-sensitive)")
	f.StringVarP(&flagType, "type", "t", "", "Exact order type")
	f.StringVar(&flagFrom, "from", "", "Start date, YYYY-MM-DD (needs --to)")
	f.StringVar(&flagTo, "to", "", "End date, YYYY-MM-DD (needs --from)")
	f.IntVar(&flagPage, "page", 1, "Page number")
	f.IntVar(&flagPageSize, "page-size", 0, "Rows per page (default from config)")

	a := ordersAddCmd.Flags()
	a.StringVar(&flagOrder.Name, "name", "", "Order name")
	a.StringVarP(&flagOrder.Type, "type", "t", model.TypeDining, "Order type")
	a.StringVar(&flagOrder.Amount, "amount", "", "Amount, up to two decimals")
	a.StringVar(&flagOrder.Currency, "currency", model.CurrencyCNY, "Currency code or label")
	a.StringVar(&flagOrder.Date, "date", "", "Date, YYYY-MM-DD (default today)")
	a.StringVar(&flagOrder.Remark, "remark", "", "Remark")

	ordersDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation")

	ordersCmd.AddCommand(ordersAddCmd, ordersDeleteCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrders(cmd *cobra.Command, _ []string) error {
	filter := model.Filter{Name: flagName, Type: flagType}
	if err := (tui.DateRange{From: flagFrom, To: flagTo}).Apply(&filter); err != nil {
		return fmt.Errorf("--from/--to: %w", err)
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

	pageSize := flagPageSize
	if pageSize == 0 {
		pageSize = cfg.Display.PageSize
	}
	page := pipeline.Paginate(snap.Orders, filter, flagPage, pageSize)

	fmt.Println()
	if page.Total == 0 {
		fmt.Println("  No orders match.")
		return nil
	}
	fmt.Print(cli.RenderTable(cli.OrdersTable(page)))
	if page.Page > page.PageCount() {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Page %d is past the end; there are %d pages.", page.Page, page.PageCount())))
	}
	if snap.ServerTotal != len(snap.Orders) {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Server reports %d orders in total.", snap.ServerTotal)))
	}
	return nil
}

func runOrdersAdd(cmd *cobra.Command, _ []string) error {
	in := flagOrder
	if in.Name == "" || in.Amount == "" {
		if err := tui.OrderForm(&in, time.Now()).Run(); err != nil {
			return err
		}
	}
	if in.Date == "" {
		in.Date = time.Now().Format("2006-01-02")
	}

	s, err := openSession(stderrNotifier())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.book.Create(cmd.Context(), in); err != nil {
		if errors.Is(err, ledger.ErrInvalidInput) {
			return err
		}
		return errReported
	}
	return nil
}

func runOrdersDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	s, err := openSession(stderrNotifier())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if !flagYes {
		title := fmt.Sprintf("Delete order %s?", id)
		for _, o := range s.book.Orders() {
			if o.ID == id {
				title = fmt.Sprintf("Delete %q (%s, %s)?", o.Name, cli.FormatMoney(o.Amount, o.Currency), cli.OrDash(o.Date))
				break
			}
		}
		ok := false
		if err := tui.ConfirmForm(title, &ok).Run(); err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := s.book.Delete(cmd.Context(), id); err != nil {
		return errReported
	}
	return nil
}
