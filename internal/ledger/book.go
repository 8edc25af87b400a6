// Package ledger holds the client-side order list and drives the
// create/delete/refresh cycle against the order service.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/model"
)

// User-facing messages.
const (
	MsgFetchFailed   = "获取订单失败"
	MsgCreated       = "创建成功"
	MsgCreateFailed  = "创建失败"
	MsgDeleted       = "删除成功"
	MsgDeleteFailed  = "删除失败"
	MsgInvalidFormat = "返回数据格式错误"
)

// OrderService is the part of the REST client the book talks to.
// *api.Client satisfies it.
type OrderService interface {
	FetchOrders(ctx context.Context) (api.FetchResult, error)
	CreateOrder(ctx context.Context, in api.NewOrder) (model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Snapshot is a point-in-time copy of the book.
type Snapshot struct {
	Orders      []model.Order
	ServerTotal int
	FetchedAt   time.Time
	Loaded      bool // false until a fetch succeeded or a seed was given
}

// Option configures a Book.
type Option func(*Book)

// WithSeed starts the book from a previously stored fetch.
func WithSeed(orders []model.Order, serverTotal int, fetchedAt time.Time) Option {
	return func(b *Book) {
		b.orders = append([]model.Order(nil), orders...)
		b.serverTotal = serverTotal
		b.fetchedAt = fetchedAt
		b.loaded = true
	}
}

// WithOnUpdate registers fn to run after every applied fetch, outside the
// book's lock.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(b *Book) { b.onUpdate = fn }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(b *Book) { b.logger = l }
}

// Book is the order list as last fetched from the server. It is safe for
// concurrent use. Fetches are numbered as they are issued; a response is
// applied only if no later-issued fetch has been applied already.
type Book struct {
	svc      OrderService
	notifier Notifier
	logger   *slog.Logger
	onUpdate func(Snapshot)

	mu          sync.Mutex
	issued      uint64
	applied     uint64
	orders      []model.Order
	serverTotal int
	fetchedAt   time.Time
	loaded      bool
}

// NewBook creates a book backed by svc. A nil notifier discards
// notifications.
func NewBook(svc OrderService, notifier Notifier, opts ...Option) *Book {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	b := &Book{
		svc:      svc,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Refresh fetches the full order list and replaces the held list with it.
// On failure the held list is unchanged and one error notification is sent.
// A response that arrives after a newer one has been applied is dropped.
func (b *Book) Refresh(ctx context.Context) error {
	seq := b.nextSeq()

	res, err := b.svc.FetchOrders(ctx)
	if err != nil {
		msg := MsgFetchFailed
		if errors.Is(err, api.ErrBadResponse) {
			msg = MsgInvalidFormat
		}
		b.notifier.Notify(Notification{Level: LevelError, Message: msg, Err: err})
		return err
	}

	snap, ok := b.apply(seq, res)
	if !ok {
		b.logger.Debug("dropping stale order response", "seq", seq)
		return nil
	}
	if b.onUpdate != nil {
		b.onUpdate(snap)
	}
	return nil
}

// Create validates the form, posts it and refreshes on success.
// Validation failures return an error wrapping ErrInvalidInput and send no
// request and no notification.
func (b *Book) Create(ctx context.Context, in OrderInput) error {
	body, err := ValidateOrder(in)
	if err != nil {
		return err
	}
	if _, err := b.svc.CreateOrder(ctx, body); err != nil {
		b.notifier.Notify(Notification{Level: LevelError, Message: MsgCreateFailed, Err: err})
		return err
	}
	b.notifier.Notify(Notification{Level: LevelInfo, Message: MsgCreated})
	return b.Refresh(ctx)
}

// Delete removes one order on the server and refetches the list. The held
// list is never edited locally.
func (b *Book) Delete(ctx context.Context, id string) error {
	if err := b.svc.DeleteOrder(ctx, id); err != nil {
		b.notifier.Notify(Notification{Level: LevelError, Message: MsgDeleteFailed, Err: err})
		return err
	}
	b.notifier.Notify(Notification{Level: LevelInfo, Message: MsgDeleted})
	return b.Refresh(ctx)
}

// Orders returns a copy of the held list.
func (b *Book) Orders() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Order(nil), b.orders...)
}

// Snapshot returns a copy of the current state.
func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Book) nextSeq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return b.issued
}

func (b *Book) apply(seq uint64, res api.FetchResult) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seq < b.applied {
		return Snapshot{}, false
	}
	b.applied = seq
	b.orders = append([]model.Order(nil), res.Orders...)
	b.serverTotal = res.ServerTotal
	b.fetchedAt = res.FetchedAt
	b.loaded = true
	return b.snapshotLocked(), true
}

func (b *Book) snapshotLocked() Snapshot {
	return Snapshot{
		Orders:      append([]model.Order(nil), b.orders...),
		ServerTotal: b.serverTotal,
		FetchedAt:   b.fetchedAt,
		Loaded:      b.loaded,
	}
}
