package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/ledger"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/tui"
)

var flagAccount ledger.AccountInput

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts",
	RunE:  runAccounts,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account (interactive when --name is missing)",
	RunE:  runAccountsAdd,
}

func init() {
	f := accountsAddCmd.Flags()
	f.StringVar(&flagAccount.Name, "name", "", "Account name")
	f.StringVar(&flagAccount.AccountType, "type", "", "Account type, e.g. cash or card")
	f.StringVar(&flagAccount.Balance, "balance", "0", "Opening balance")
	f.StringVar(&flagAccount.Currency, "currency", model.CurrencyCNY, "Currency code or label")
	f.StringVar(&flagAccount.Remark, "remark", "", "Remark")

	accountsCmd.AddCommand(accountsAddCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runAccounts(cmd *cobra.Command, _ []string) error {
	s, err := openSession(stderrNotifier())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	accounts, err := s.client.ListAccounts(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching accounts: %w", err)
	}

	fmt.Println()
	if len(accounts) == 0 {
		fmt.Println("  No accounts yet. Add one with `abook accounts add`.")
		return nil
	}
	fmt.Print(cli.RenderTable(cli.AccountsTable(accounts)))
	return nil
}

func runAccountsAdd(cmd *cobra.Command, _ []string) error {
	in := flagAccount
	if in.Name == "" {
		if err := tui.AccountForm(&in).Run(); err != nil {
			return err
		}
	}

	body, err := ledger.ValidateAccount(in)
	if err != nil {
		return err
	}

	s, err := openSession(stderrNotifier())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	notify := stderrNotifier()
	if _, err := s.client.CreateAccount(cmd.Context(), body); err != nil {
		notify.Notify(ledger.Notification{Level: ledger.LevelError, Message: ledger.MsgCreateFailed, Err: err})
		return errReported
	}
	notify.Notify(ledger.Notification{Level: ledger.LevelInfo, Message: ledger.MsgCreated})
	return nil
}
