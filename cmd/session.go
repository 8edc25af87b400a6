package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/config"
	"github.com/mgy583/account-book/internal/ledger"
	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/pipeline"
	"github.com/mgy583/account-book/internal/store"
)

// session bundles what every order command needs: local state, an
// authenticated client and a book seeded from the last stored fetch.
type session struct {
	baseURL string
	store   *store.Store
	client  *api.Client
	book    *ledger.Book
}

func openSession(notifier ledger.Notifier) (*session, error) {
	url := baseURL()

	st, err := store.Open(flagStatePath)
	if err != nil {
		return nil, err
	}

	cred, err := resolveCredential(st, url)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	client := newClient(url, cred)

	opts := []ledger.Option{
		ledger.WithLogger(slog.Default()),
		ledger.WithOnUpdate(func(s ledger.Snapshot) {
			err := st.SaveSnapshot(store.Snapshot{
				BaseURL:     url,
				Orders:      s.Orders,
				ServerTotal: s.ServerTotal,
				FetchedAt:   s.FetchedAt,
			})
			if err != nil {
				slog.Warn("saving order snapshot", "err", err)
			}
		}),
	}
	snap, err := st.LoadSnapshot(url)
	switch {
	case err == nil:
		opts = append(opts, ledger.WithSeed(snap.Orders, snap.ServerTotal, snap.FetchedAt))
	case !errors.Is(err, store.ErrNoSnapshot):
		slog.Warn("loading order snapshot", "err", err)
	}

	return &session{
		baseURL: url,
		store:   st,
		client:  client,
		book:    ledger.NewBook(client, notifier, opts...),
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// resolveCredential prefers the token from the environment over a stored
// login. No credential at all is not an error; requests go out without a
// bearer header.
func resolveCredential(st *store.Store, url string) (api.Credential, error) {
	if tok := config.TokenFromEnv(); tok != "" {
		return api.Credential{Token: tok}, nil
	}
	cred, err := st.LoadCredential(url)
	if errors.Is(err, store.ErrNoCredential) {
		return api.Credential{}, nil
	}
	return cred, err
}

func newClient(url string, cred api.Credential) *api.Client {
	timeout := time.Duration(cfg.Server.TimeoutSec) * time.Second
	return api.NewClient(url, cred, api.WithTimeout(timeout), api.WithLogger(slog.Default()))
}

// loadOrders refreshes the book. When the fetch fails but an earlier
// snapshot exists, that snapshot is returned with stale set; the failure has
// already been reported by the notifier.
func (s *session) loadOrders(ctx context.Context) (snap ledger.Snapshot, stale bool, err error) {
	err = s.book.Refresh(ctx)
	snap = s.book.Snapshot()
	if err == nil {
		return snap, false, nil
	}
	if snap.Loaded {
		return snap, true, nil
	}
	if s.client.Credential().IsZero() {
		fmt.Fprintln(os.Stderr, cli.RenderMuted("  Not logged in. Run `abook login` first."))
	}
	return snap, false, errReported
}

// stderrNotifier prints notifications on stderr, one line each. Success
// notices are dropped under --quiet.
func stderrNotifier() ledger.Notifier {
	return ledger.NotifierFunc(func(n ledger.Notification) {
		isErr := n.Level == ledger.LevelError
		if flagQuiet && !isErr {
			return
		}
		msg := n.Message
		if detail := api.ServerMessage(n.Err); detail != "" {
			msg += ": " + detail
		}
		fmt.Fprintln(os.Stderr, "  "+cli.RenderNotice(msg, isErr))
		if n.Err != nil {
			slog.Debug("request failed", "notice", n.Message, "err", n.Err)
		}
	})
}

func printStale(snap ledger.Snapshot) {
	fmt.Fprintln(os.Stderr, cli.RenderMuted(
		"  Showing orders saved "+cli.FormatFetchedAt(snap.FetchedAt, time.Now())))
}

// configuredView builds the initial view from config, falling back to the
// defaults for unparseable values.
func configuredView() pipeline.View {
	v := pipeline.DefaultView()
	v.PageSize = cfg.Display.PageSize
	if g, err := model.ParseStatGroup(cfg.Display.StatGroup); err == nil {
		v.Group = g
	}
	if w, err := model.ParseMonthWindow(cfg.Display.StatMonth); err == nil {
		v.Window = w
	}
	if g, err := model.ParseGranularity(cfg.Display.ChartGranularity); err == nil {
		v.Granularity = g
	}
	return v
}
