package dashboard

import (
	"context"
	"sync"

	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/market"
)

// Registry hands out one shared Controller per instrument, created and loaded
// on first use.
type Registry struct {
	mu    sync.Mutex
	opts  Options
	ctrls map[market.Instrument]*Controller
	run   context.Context
}

func NewRegistry(opts Options) *Registry {
	if opts.Engine == nil {
		opts.Engine = calc.NewEngine(calc.DefaultParams())
	}
	return &Registry{
		opts:  opts,
		ctrls: make(map[market.Instrument]*Controller),
	}
}

func (r *Registry) Get(ctx context.Context, inst market.Instrument) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.ctrls[inst]; ok {
		return c, nil
	}
	c, err := New(inst, r.opts)
	if err != nil {
		return nil, err
	}
	c.Load(ctx)
	if r.run != nil {
		c.Start(r.run)
	}
	r.ctrls[inst] = c
	return c, nil
}

// Engine is the calculator shared by every controller.
func (r *Registry) Engine() *calc.Engine {
	return r.opts.Engine
}

// Start schedules the end-of-month check for every controller, including
// ones created later, until ctx is done.
func (r *Registry) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.run = ctx
	for _, c := range r.ctrls {
		c.Start(ctx)
	}
}
