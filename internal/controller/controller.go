// Package controller drives the resource list: it owns the list state, turns
// user intents into network tasks, and folds task results back into state
// through catalog.Reduce.
//
// A Controller is not safe for concurrent use. All methods must be called
// from one goroutine (the UI update loop or Settle). Tasks returned by the
// methods may run on any goroutine; they only perform I/O and return an event
// that the caller hands back to Apply.
package controller

import (
	"context"
	"errors"
	"strings"

	"oer-catalog/internal/catalog"
	"oer-catalog/internal/source"

	"go.uber.org/zap"
)

var ErrNoSources = errors.New("controller: at least one source is required")

// Fetcher performs the remote calls.
type Fetcher interface {
	FetchPage(ctx context.Context, endpoint string, page, perPage int) (source.Page, error)
	FetchTermNames(ctx context.Context, url string) ([]string, error)
}

// Diagnostics receives failures that are recorded but never shown.
type Diagnostics interface {
	EnrichmentFailed(ev catalog.EnrichmentFailed)
}

// Task performs one request and reports its outcome.
type Task func() catalog.Event

type Config struct {
	Sources   []string
	PageSize  int
	StartPage int
	Policy    catalog.LoadingPolicy
}

type Option func(*Controller)

func WithDiagnostics(d Diagnostics) Option {
	return func(c *Controller) { c.diag = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithContext sets the parent of every cycle scope.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.parent = ctx
		}
	}
}

type slotRef struct {
	index int
	key   string
}

type Controller struct {
	sources   []string
	pageSize  int
	startPage int

	fetcher Fetcher
	diag    Diagnostics
	log     *zap.Logger
	parent  context.Context

	state catalog.State
	cycle uint64

	// scope covers every request issued in the current cycle.
	scope  context.Context
	cancel context.CancelFunc

	inflight map[slotRef]bool
}

func New(cfg Config, f Fetcher, opts ...Option) (*Controller, error) {
	var sources []string
	for _, s := range cfg.Sources {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if f == nil {
		return nil, errors.New("controller: nil fetcher")
	}
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	startPage := cfg.StartPage
	if startPage < 1 {
		startPage = 1
	}

	c := &Controller{
		sources:   sources,
		pageSize:  pageSize,
		startPage: startPage,
		fetcher:   f,
		parent:    context.Background(),
		state:     catalog.NewState(cfg.Policy),
		inflight:  map[slotRef]bool{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.diag == nil {
		c.diag = LogDiagnostics{Log: c.log}
	}
	c.state.Page = startPage
	return c, nil
}

// State returns the current list state. Callers must treat its slices as
// read-only.
func (c *Controller) State() catalog.State { return c.state }

// Limits returns the per-source request limits for one page.
func (c *Controller) Limits() []int { return catalog.Partition(c.pageSize, len(c.sources)) }

// Start begins the first cycle (mount).
func (c *Controller) Start() []Task { return c.startCycle(c.startPage) }

// Reload restarts the current page.
func (c *Controller) Reload() []Task { return c.startCycle(c.state.Page) }

// NextPage moves forward one page. There is no upper bound.
func (c *Controller) NextPage() []Task { return c.startCycle(c.state.Page + 1) }

// PreviousPage moves back one page; on page 1 it does nothing.
func (c *Controller) PreviousPage() []Task {
	if c.state.Page <= 1 {
		return nil
	}
	return c.startCycle(c.state.Page - 1)
}

func (c *Controller) startCycle(page int) []Task {
	if c.cancel != nil {
		c.cancel()
	}
	c.scope, c.cancel = context.WithCancel(c.parent)
	c.inflight = map[slotRef]bool{}
	c.cycle++

	limits := c.Limits()
	c.state = catalog.Reduce(c.state, catalog.CycleStarted{Cycle: c.cycle, Page: page, Requests: len(c.sources)})
	c.log.Debug("fetch cycle started",
		zap.Uint64("cycle", c.cycle),
		zap.Int("page", c.state.Page),
		zap.Ints("limits", limits),
	)

	tasks := make([]Task, 0, len(c.sources))
	for i, endpoint := range c.sources {
		tasks = append(tasks, pageTask(c.scope, c.fetcher, c.cycle, i, endpoint, c.state.Page, limits[i]))
	}
	return tasks
}

// ToggleExpand opens item i (closing any other) or closes it when open, then
// requests every slot of item i that is still unresolved.
func (c *Controller) ToggleExpand(i int) []Task {
	if i < 0 || i >= len(c.state.Items) {
		return nil
	}
	c.state = catalog.Reduce(c.state, catalog.ExpansionToggled{Index: i})
	return c.enrichTasks(i)
}

// EnrichAll requests every unresolved slot of every item without changing
// which item is expanded.
func (c *Controller) EnrichAll() []Task {
	var tasks []Task
	for i := range c.state.Items {
		tasks = append(tasks, c.enrichTasks(i)...)
	}
	return tasks
}

func (c *Controller) enrichTasks(i int) []Task {
	if c.scope == nil {
		return nil
	}
	item := c.state.Items[i]
	var tasks []Task
	for _, key := range item.PendingSlots() {
		ref := slotRef{index: i, key: key}
		if c.inflight[ref] {
			continue
		}
		slot, _ := item.Slot(key)
		c.inflight[ref] = true
		tasks = append(tasks, enrichTask(c.scope, c.fetcher, c.cycle, i, key, slot.URL))
	}
	return tasks
}

// Apply folds a task result into the state.
func (c *Controller) Apply(ev catalog.Event) {
	switch ev := ev.(type) {
	case catalog.PageRequestFailed:
		if !ev.Canceled {
			c.log.Warn("page request failed",
				zap.Uint64("cycle", ev.Cycle),
				zap.Int("source", ev.Source),
				zap.Error(ev.Err),
			)
		}
	case catalog.EnrichmentResolved:
		if ev.Cycle == c.cycle {
			delete(c.inflight, slotRef{index: ev.Index, key: ev.Key})
		}
	case catalog.EnrichmentFailed:
		if ev.Cycle == c.cycle {
			delete(c.inflight, slotRef{index: ev.Index, key: ev.Key})
		}
		if !ev.Canceled {
			c.diag.EnrichmentFailed(ev)
		}
	}
	c.state = catalog.Reduce(c.state, ev)
}

// Close cancels every outstanding request.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func pageTask(ctx context.Context, f Fetcher, cycle uint64, src int, endpoint string, page, limit int) Task {
	return func() catalog.Event {
		p, err := f.FetchPage(ctx, endpoint, page, limit)
		if ctx.Err() != nil {
			return catalog.PageRequestFailed{Cycle: cycle, Source: src, Err: ctx.Err(), Canceled: true}
		}
		if err != nil {
			return catalog.PageRequestFailed{Cycle: cycle, Source: src, Err: err, Canceled: source.IsCanceled(err)}
		}
		return catalog.PageResponseArrived{Cycle: cycle, Source: src, Items: p.Items, Total: p.Total}
	}
}

func enrichTask(ctx context.Context, f Fetcher, cycle uint64, index int, key, url string) Task {
	return func() catalog.Event {
		names, err := f.FetchTermNames(ctx, url)
		if ctx.Err() != nil {
			return catalog.EnrichmentFailed{Cycle: cycle, Index: index, Key: key, URL: url, Err: ctx.Err(), Canceled: true}
		}
		if err != nil {
			return catalog.EnrichmentFailed{Cycle: cycle, Index: index, Key: key, URL: url, Err: err, Canceled: source.IsCanceled(err)}
		}
		return catalog.EnrichmentResolved{Cycle: cycle, Index: index, Key: key, Value: catalog.JoinNames(names)}
	}
}
