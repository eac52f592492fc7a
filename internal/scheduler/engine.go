// Package scheduler computes calendar schedules over the milestone DAG:
// duration resolution, the forward pass, the backward (critical path) pass
// and schedule risk.
package scheduler

import (
	"time"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/domain"
)

// Engine runs schedule computations against one catalog. It holds no
// per-site state and is safe for concurrent use.
type Engine struct {
	catalog    *catalog.Catalog
	thresholds RiskThresholds
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRiskThresholds overrides the default risk thresholds.
func WithRiskThresholds(th RiskThresholds) Option {
	return func(e *Engine) { e.thresholds = th }
}

// WithClock sets the clock used for the default project start and for
// LastCalculated stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine for the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:    cat,
		thresholds: DefaultRiskThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Thresholds returns the risk thresholds in use.
func (e *Engine) Thresholds() RiskThresholds { return e.thresholds }

// Now returns the engine clock in UTC.
func (e *Engine) Now() time.Time { return e.now().UTC() }

// Today returns the current calendar day in UTC.
func (e *Engine) Today() time.Time { return domain.CivilDate(e.now()) }

// Recompute runs the forward pass, the backward pass and risk classification
// on a copy of data and returns the copy. data itself is never modified, so a
// failed recompute leaves the previous schedule intact.
func (e *Engine) Recompute(data *domain.CriticalPathData) (*domain.CriticalPathData, error) {
	out := data.Clone()
	if err := e.Schedule(out); err != nil {
		return nil, err
	}
	if err := e.IdentifyCriticalPath(out); err != nil {
		return nil, err
	}
	e.AssessRisk(out)
	stamp := e.now().UTC().Truncate(time.Second)
	out.LastCalculated = &stamp
	return out, nil
}
