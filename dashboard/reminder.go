package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/kv"
)

type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// LogNotifier writes notifications to a logger at warn level so they stand
// out in console output.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(msg string) {
	n.Logger.Warn().Str("kind", "reminder").Msg(msg)
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// ReminderKey is the global flag recording that the reminder fired for a
// month.
func ReminderKey(year int, month time.Month) string {
	return fmt.Sprintf("eomReminder_%d_%d", year, int(month))
}

// IsLastDayOfMonth reports whether t falls on its month's final day.
func IsLastDayOfMonth(t time.Time) bool {
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return t.Day() == last
}

// CheckEndOfMonth notifies once per calendar month, on its last day. It
// reports whether a notification was sent.
func (c *Controller) CheckEndOfMonth(ctx context.Context) bool {
	ctx = c.ctx(ctx)

	c.mu.Lock()
	now := c.clock.Now().In(c.loc)
	if !IsLastDayOfMonth(now) {
		c.mu.Unlock()
		return false
	}
	key := ReminderKey(now.Year(), now.Month())
	if kv.Get(ctx, c.store, key, false) {
		c.mu.Unlock()
		return false
	}
	kv.Set(ctx, c.store, key, true)
	balance := c.balance
	c.mu.Unlock()

	msg := fmt.Sprintf("Last trading day of %s %d: review your month and plan your withdrawal (%s balance %s).",
		now.Month(), now.Year(), c.inst, calc.Money(balance))
	c.log.Info().Str("key", key).Msg("end-of-month reminder")
	c.notify.Notify(msg)
	return true
}
