package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/config"
	"github.com/mgy583/account-book/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server, login and local snapshot status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	url := baseURL()

	st, err := store.Open(flagStatePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cred, err := resolveCredential(st, url)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Server", url},
		{"State", flagStatePath},
	}

	switch {
	case config.TokenFromEnv() != "":
		rows = append(rows, []string{"Login", "token from " + config.EnvToken})
	case cred.IsZero():
		rows = append(rows, []string{"Login", "not logged in"})
	default:
		rows = append(rows, []string{"Login", cli.OrDash(cred.Username)})
	}

	now := time.Now()
	snap, err := st.LoadSnapshot(url)
	switch {
	case err == nil:
		rows = append(rows,
			[]string{"Snapshot", fmt.Sprintf("%s orders, %s", cli.FormatNumber(int64(len(snap.Orders))), cli.FormatFetchedAt(snap.FetchedAt, now))})
	case errors.Is(err, store.ErrNoSnapshot):
		rows = append(rows, []string{"Snapshot", "none"})
	default:
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	start := time.Now()
	res, err := newClient(url, cred).FetchOrders(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	reach := cli.RenderNotice(fmt.Sprintf("%d orders in %s", res.ServerTotal, elapsed), false)
	if err != nil {
		msg := err.Error()
		if m := api.ServerMessage(err); m != "" {
			msg = m
		}
		reach = cli.RenderNotice(msg, true)
	}
	rows = append(rows, []string{"---"}, []string{"Server check", reach})

	fmt.Println()
	fmt.Println(cli.RenderTitle("ABOOK STATUS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Value"},
		Rows:    rows,
		Right:   []bool{false, false},
	}))
	return nil
}
