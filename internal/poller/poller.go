package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fortuna/services/f1-standings-service/internal/providers/ergast"
	"github.com/fortuna/services/f1-standings-service/pkg/contracts"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

const (
	DefaultInterval       = 24 * time.Hour
	DefaultRequestTimeout = ergast.DefaultTimeout
)

// Fetcher retrieves one decoded upstream document
type Fetcher interface {
	Fetch(ctx context.Context, path string) (map[string]interface{}, error)
}

// Poller refreshes every enabled category on a fixed interval and hands the
// results to a renderer. Each cycle carries a generation; results of a cycle
// that has been overtaken by a newer one are discarded.
type Poller struct {
	fetcher  Fetcher
	modules  []contracts.CategoryModule
	renderer contracts.Renderer

	season         models.Season
	interval       time.Duration
	requestTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time

	generation atomic.Uint64
	inflight   sync.WaitGroup

	mu     sync.RWMutex
	status map[models.Category]*CategoryStatus
}

// Option configures a Poller
type Option func(*Poller)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) { p.logger = logger }
}

func WithSeason(season models.Season) Option {
	return func(p *Poller) { p.season = season }
}

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.requestTimeout = d
		}
	}
}

// WithClock replaces time.Now, used for round resolution and timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// New creates a poller over the given category modules
func New(fetcher Fetcher, modules []contracts.CategoryModule, renderer contracts.Renderer, opts ...Option) *Poller {
	p := &Poller{
		fetcher:        fetcher,
		modules:        modules,
		renderer:       renderer,
		season:         models.CurrentSeason,
		interval:       DefaultInterval,
		requestTimeout: DefaultRequestTimeout,
		logger:         slog.Default(),
		now:            time.Now,
		status:         make(map[models.Category]*CategoryStatus),
	}

	for _, opt := range opts {
		opt(p)
	}

	for _, m := range modules {
		p.status[m.GetCategory()] = &CategoryStatus{Category: m.GetCategory(), State: StateIdle}
	}

	return p
}

// Run polls once immediately and then on every tick until ctx is cancelled.
// Cycles run in their own goroutines so a slow upstream never delays the ticker.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("starting poller",
		"season", p.season.String(),
		"interval", p.interval,
		"categories", len(p.modules))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.startCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.inflight.Wait()
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.startCycle(ctx)
		}
	}
}

// RunOnce runs a single cycle and waits for every category to finish.
// The returned error is the first category failure, if any.
func (p *Poller) RunOnce(ctx context.Context) error {
	return p.cycle(ctx)
}

// Status returns a snapshot of the per-category state
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Status{
		Generation: p.generation.Load(),
		Season:     p.season.String(),
		Interval:   p.interval.String(),
		Categories: make([]CategoryStatus, 0, len(p.modules)),
	}
	for _, m := range p.modules {
		s.Categories = append(s.Categories, *p.status[m.GetCategory()])
	}
	return s
}

func (p *Poller) startCycle(ctx context.Context) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		_ = p.cycle(ctx)
	}()
}

func (p *Poller) cycle(ctx context.Context) error {
	gen := p.generation.Add(1)
	now := p.now()
	season := p.season.Resolve(now)

	p.logger.Debug("cycle started", "generation", gen, "season", season)

	var g errgroup.Group
	for _, m := range p.modules {
		module := m
		g.Go(func() error {
			return p.runCategory(ctx, gen, season, now, module)
		})
	}

	err := g.Wait()
	if err != nil {
		p.logger.Warn("cycle finished with failures", "generation", gen, "error", err)
	} else {
		p.logger.Debug("cycle finished", "generation", gen)
	}
	return err
}

// runCategory takes one category through fetch, process and delivery
func (p *Poller) runCategory(ctx context.Context, gen uint64, season int, now time.Time, module contracts.CategoryModule) error {
	category := module.GetCategory()
	p.setState(category, gen, StateFetching)

	reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	raw, err := p.fetcher.Fetch(reqCtx, module.GetEndpoint(season))
	cancel()
	if err != nil {
		return p.fail(ctx, gen, season, category, err)
	}

	payload, diags, err := module.Process(raw, now)
	p.logDiagnostics(category, gen, diags)
	if err != nil {
		return p.fail(ctx, gen, season, category, err)
	}

	p.setState(category, gen, StateDelivering)
	p.deliver(ctx, gen, models.Message{
		Type:       module.GetMessageType(),
		Category:   category,
		Generation: gen,
		Season:     season,
		Payload:    payload,
		Timestamp:  p.now(),
	})

	p.mu.Lock()
	if st := p.status[category]; st.Generation == gen {
		st.State = StateIdle
		st.LastError = ""
		st.LastSuccess = p.now()
	}
	p.mu.Unlock()

	return nil
}

// fail reports a category failure to the renderer. The ticker is unaffected.
func (p *Poller) fail(ctx context.Context, gen uint64, season int, category models.Category, err error) error {
	kind := classify(err)
	p.logger.Error("category failed",
		"category", category,
		"generation", gen,
		"kind", kind,
		"error", err)

	p.mu.Lock()
	if st := p.status[category]; st.Generation == gen {
		st.State = StateFailed
		st.LastError = err.Error()
		st.LastFailure = p.now()
	}
	p.mu.Unlock()

	p.deliver(ctx, gen, models.Message{
		Type:       models.MessageTypeError,
		Category:   category,
		Generation: gen,
		Season:     season,
		Payload: models.ErrorReport{
			Category: category,
			Kind:     kind,
			Detail:   err.Error(),
		},
		Timestamp: p.now(),
	})

	p.mu.Lock()
	if st := p.status[category]; st.Generation == gen {
		st.State = StateIdle
	}
	p.mu.Unlock()

	return fmt.Errorf("%s: %w", category, err)
}

// deliver hands msg to the renderer unless a newer cycle has started
func (p *Poller) deliver(ctx context.Context, gen uint64, msg models.Message) {
	if latest := p.generation.Load(); gen < latest {
		p.logger.Info("discarding stale result",
			"type", msg.Type,
			"category", msg.Category,
			"generation", gen,
			"latest", latest)
		return
	}

	if err := p.renderer.Deliver(ctx, msg); err != nil {
		p.logger.Error("delivery failed",
			"type", msg.Type,
			"category", msg.Category,
			"generation", gen,
			"error", err)
	}
}

func (p *Poller) setState(category models.Category, gen uint64, state State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.status[category]
	if !ok {
		return
	}
	if gen < st.Generation {
		return
	}
	st.Generation = gen
	st.State = state
}

func (p *Poller) logDiagnostics(category models.Category, gen uint64, diags []models.Diagnostic) {
	for _, d := range diags {
		level := slog.LevelDebug
		if d.Severe() {
			level = slog.LevelWarn
		}
		p.logger.Log(context.Background(), level, "diagnostic",
			"category", category,
			"generation", gen,
			"code", d.Code,
			"identity", d.Identity,
			"detail", d.Detail)
	}
}

// classify maps an upstream or processing error onto the reported error kind
func classify(err error) models.ErrorKind {
	if errors.Is(err, ergast.ErrSchema) {
		return models.ErrorKindSchema
	}
	return models.ErrorKindFetch
}
