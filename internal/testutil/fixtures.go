package testutil

import (
	"time"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/alexanderramin/critpath/internal/site"
	"github.com/google/uuid"
)

// Clock is the fixed instant used by TestEngine.
var Clock = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

// TestEngine returns an engine over the default catalog whose clock is Clock.
func TestEngine() *scheduler.Engine {
	return scheduler.New(catalog.Default(), scheduler.WithClock(func() time.Time { return Clock }))
}

// Site options
type SiteOption func(*site.Params)

func WithTargetMW(mw int) SiteOption {
	return func(p *site.Params) {
		p.TargetMW = mw
	}
}

func WithISO(iso string) SiteOption {
	return func(p *site.Params) {
		p.ISO = iso
	}
}

func WithBTM() SiteOption {
	return func(p *site.Params) {
		p.IncludeBTM = true
	}
}

func WithProjectStart(d time.Time) SiteOption {
	return func(p *site.Params) {
		p.ProjectStart = &d
	}
}

func WithTargetEnergization(d time.Time) SiteOption {
	return func(p *site.Params) {
		p.TargetEnergization = &d
	}
}

// NewTestSite returns an unsaved site whose schedule has been computed by
// TestEngine. It panics if initialization fails.
func NewTestSite(name string, opts ...SiteOption) *domain.Site {
	id := uuid.New().String()
	p := site.Params{SiteID: id, ProjectStart: domain.TimePtr(domain.Date(2025, time.January, 6))}
	for _, opt := range opts {
		opt(&p)
	}
	data, err := site.Initialize(TestEngine(), p)
	if err != nil {
		panic(err)
	}
	return &domain.Site{
		ID:        id,
		Name:      name,
		Version:   1,
		Data:      data,
		CreatedAt: Clock,
		UpdatedAt: Clock,
	}
}

// NewTestScenario returns an unsaved scenario for siteID.
func NewTestScenario(siteID, name string, overrides ...domain.Override) *domain.Scenario {
	return &domain.Scenario{
		ID:        uuid.New().String(),
		SiteID:    siteID,
		Name:      name,
		Overrides: overrides,
		CreatedAt: Clock,
	}
}
