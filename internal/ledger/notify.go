package ledger

import (
	"log/slog"
	"sync"
)

// Level classifies a user-facing notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a one-line message for the user, like a toast.
type Notification struct {
	Level   Level
	Message string
	Err     error // underlying cause for LevelError, may be nil
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a slog logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if n.Level == LevelError {
		if n.Err != nil {
			logger.Error(n.Message, "error", n.Err)
			return
		}
		logger.Error(n.Message)
		return
	}
	logger.Info(n.Message)
}

// Collector buffers notifications until they are drained.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
}

// Drain returns and clears the buffered notifications.
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = nil
	return items
}

// Len returns the number of buffered notifications.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
