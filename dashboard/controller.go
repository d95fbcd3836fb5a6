// Package dashboard binds the calculation engine to persisted account state
// for one instrument and produces the view model the CLI and API render.
package dashboard

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/journal"
	"github.com/rustyeddy/tradedash/kv"
	"github.com/rustyeddy/tradedash/market"
	"github.com/rustyeddy/tradedash/sched"
)

var ErrInvalidBalance = errors.New("balance must be a non-negative number")

const (
	keyBalance   = "currentBalance"
	keyTrades    = "tradesToday"
	keyLastTrade = "lastTradeDate"

	dateLayout = "2006-01-02"

	// ReminderInterval is how often the end-of-month check re-runs.
	ReminderInterval = 6 * time.Hour
)

type State int

const (
	Uninitialized State = iota
	Loaded
	Recomputing
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Recomputing:
		return "recomputing"
	}
	return "uninitialized"
}

type Options struct {
	Store     kv.Store
	Engine    *calc.Engine
	Clock     sched.Clock
	Scheduler sched.Scheduler
	Notifier  Notifier

	// Journal receives every counted balance update. Optional.
	Journal journal.Journal

	Logger zerolog.Logger

	// Location decides where calendar days start. Defaults to time.Local.
	Location *time.Location
}

// Controller owns the balance and trade counter of one instrument. All
// methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	inst   market.Instrument
	spec   market.Spec
	store  kv.Store
	engine *calc.Engine
	clock  sched.Clock
	sched  sched.Scheduler
	notify Notifier
	jrnl   journal.Journal
	log    zerolog.Logger
	loc    *time.Location

	state       State
	balance     float64
	tradesToday int
	lastDate    string
	plan        calc.TradePlan
}

func New(inst market.Instrument, opts Options) (*Controller, error) {
	spec, err := market.Lookup(inst)
	if err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, errors.New("dashboard: store is required")
	}

	c := &Controller{
		inst:   inst,
		spec:   spec,
		store:  opts.Store,
		engine: opts.Engine,
		clock:  opts.Clock,
		sched:  opts.Scheduler,
		notify: opts.Notifier,
		jrnl:   opts.Journal,
		log:    opts.Logger.With().Str("instrument", string(inst)).Logger(),
		loc:    opts.Location,
	}
	if c.engine == nil {
		c.engine = calc.NewEngine(calc.DefaultParams())
	}
	if c.clock == nil {
		c.clock = sched.System{}
	}
	if c.sched == nil {
		c.sched = sched.System{}
	}
	if c.notify == nil {
		c.notify = LogNotifier{Logger: c.log}
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	return c, nil
}

func (c *Controller) Instrument() market.Instrument { return c.inst }

func (c *Controller) Spec() market.Spec { return c.spec }

func (c *Controller) Engine() *calc.Engine { return c.engine }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) today() string {
	return c.clock.Now().In(c.loc).Format(dateLayout)
}

func (c *Controller) ctx(ctx context.Context) context.Context {
	return c.log.WithContext(ctx)
}

// Load reads persisted state, applies the date rollover, builds the plan and
// runs the end-of-month check.
func (c *Controller) Load(ctx context.Context) {
	ctx = c.ctx(ctx)

	c.mu.Lock()
	today := c.today()
	c.balance = kv.Get(ctx, c.store, c.inst.Key(keyBalance), c.spec.SeedBalance)
	c.tradesToday = kv.Get(ctx, c.store, c.inst.Key(keyTrades), 0)
	c.lastDate = kv.Get(ctx, c.store, c.inst.Key(keyLastTrade), today)
	if c.tradesToday < 0 {
		c.tradesToday = 0
	}
	if !c.rolloverLocked(ctx) {
		c.rebuildLocked()
	}
	c.log.Debug().
		Float64("balance", c.balance).
		Int("trades_today", c.tradesToday).
		Str("last_trade_date", c.lastDate).
		Msg("dashboard loaded")
	c.mu.Unlock()

	c.CheckEndOfMonth(ctx)
}

// Start re-runs the end-of-month check every ReminderInterval until ctx is
// done.
func (c *Controller) Start(ctx context.Context) {
	stop := c.sched.Every(ReminderInterval, func() { c.CheckEndOfMonth(ctx) })
	go func() {
		<-ctx.Done()
		stop()
	}()
}

func (c *Controller) ensureLoadedLocked(ctx context.Context) {
	if c.state != Uninitialized {
		return
	}
	c.mu.Unlock()
	c.Load(ctx)
	c.mu.Lock()
}

// rolloverLocked resets the counter when the stored trade date is not today.
// It reports whether a reset happened.
func (c *Controller) rolloverLocked(ctx context.Context) bool {
	today := c.today()
	if c.lastDate == today {
		return false
	}
	c.log.Info().
		Str("from", c.lastDate).
		Str("to", today).
		Int("trades_reset", c.tradesToday).
		Msg("new trading day")

	c.tradesToday = 0
	c.lastDate = today
	kv.Set(ctx, c.store, c.inst.Key(keyTrades), c.tradesToday)
	kv.Set(ctx, c.store, c.inst.Key(keyLastTrade), c.lastDate)
	c.rebuildLocked()
	return true
}

func (c *Controller) rebuildLocked() {
	c.state = Recomputing
	plan := c.engine.ComputeTradePlan(c.balance, c.spec)
	plan.MarkProgress(c.tradesToday)
	c.plan = plan
	c.state = Loaded
}

// UpdateBalance records a new balance. A value different from the current
// balance counts as one trade for today.
func (c *Controller) UpdateBalance(ctx context.Context, v float64) (Snapshot, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Snapshot{}, ErrInvalidBalance
	}
	ctx = c.ctx(ctx)

	c.mu.Lock()
	c.ensureLoadedLocked(ctx)
	c.rolloverLocked(ctx)

	prev := c.balance
	changed := v != prev
	if changed {
		c.tradesToday++
	}
	c.balance = v

	kv.Set(ctx, c.store, c.inst.Key(keyBalance), c.balance)
	kv.Set(ctx, c.store, c.inst.Key(keyTrades), c.tradesToday)
	kv.Set(ctx, c.store, c.inst.Key(keyLastTrade), c.lastDate)

	c.rebuildLocked()

	if changed && c.jrnl != nil {
		err := c.jrnl.RecordBalance(journal.BalanceRecord{
			Instrument:  c.inst,
			Time:        c.clock.Now(),
			Previous:    prev,
			Balance:     v,
			TradesToday: c.tradesToday,
		})
		if err != nil {
			c.log.Warn().Err(err).Msg("journal balance update")
		}
	}

	c.log.Info().
		Float64("previous", prev).
		Float64("balance", v).
		Int("trades_today", c.tradesToday).
		Bool("counted", changed).
		Msg("balance updated")

	snap := c.snapshotLocked()
	c.mu.Unlock()
	return snap, nil
}

func (c *Controller) Balance(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked(ctx)
	return c.balance
}

// TradesToday returns the counter after applying the date rollover.
func (c *Controller) TradesToday(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked(ctx)
	c.rolloverLocked(c.ctx(ctx))
	return c.tradesToday
}

// Plan returns today's plan, or nil when there is no positive balance.
func (c *Controller) Plan(ctx context.Context) *calc.TradePlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked(ctx)
	c.rolloverLocked(c.ctx(ctx))
	return c.planLocked()
}

func (c *Controller) planLocked() *calc.TradePlan {
	if c.balance <= 0 {
		return nil
	}
	p := c.plan
	p.Groups = make([]calc.TradeGroup, len(c.plan.Groups))
	for i, g := range c.plan.Groups {
		p.Groups[i] = calc.TradeGroup{
			Name:   g.Name,
			Trades: append([]calc.TradeDetail(nil), g.Trades...),
		}
	}
	return &p
}

// Snapshot is the full read model.
func (c *Controller) Snapshot(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoadedLocked(ctx)
	c.rolloverLocked(c.ctx(ctx))
	return c.snapshotLocked()
}
