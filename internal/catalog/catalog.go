// Package catalog holds the static, versioned milestone catalog: templates,
// their predecessor DAG and the default lead-time table.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/alexanderramin/critpath/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is an immutable, validated set of milestone templates.
type Catalog struct {
	version   string
	templates map[string]domain.MilestoneTemplate
	ids       []string
	topo      []string
	leadTimes map[string]domain.LeadTime
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded catalog is
// invalid, so a broken catalog fails at startup rather than on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(embeddedCatalog))
		if err != nil {
			panic(fmt.Sprintf("embedded milestone catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses and validates a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	templates := make([]domain.MilestoneTemplate, 0, len(f.Milestones))
	for _, spec := range f.Milestones {
		templates = append(templates, spec.toDomain())
	}
	leadTimes := make(map[string]domain.LeadTime, len(f.LeadTimes))
	for k, v := range f.LeadTimes {
		leadTimes[k] = domain.LeadTime{Min: v.Min, Typical: v.Typical, Max: v.Max}
	}
	return New(f.Version, templates, leadTimes)
}

// New validates templates and builds a catalog from them.
func New(version string, templates []domain.MilestoneTemplate, leadTimes map[string]domain.LeadTime) (*Catalog, error) {
	byID, topo, err := validate(templates)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		version:   version,
		templates: byID,
		topo:      topo,
		leadTimes: make(map[string]domain.LeadTime, len(leadTimes)),
	}
	for k, v := range leadTimes {
		c.leadTimes[k] = v
	}
	for id := range byID {
		c.ids = append(c.ids, id)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Version identifies the catalog revision. Sites record the version they
// were last reconciled against.
func (c *Catalog) Version() string { return c.version }

// Templates returns a copy of every template keyed by id.
func (c *Catalog) Templates() map[string]domain.MilestoneTemplate {
	out := make(map[string]domain.MilestoneTemplate, len(c.templates))
	for id, t := range c.templates {
		out[id] = copyTemplate(t)
	}
	return out
}

// Template returns the template with the given id.
func (c *Catalog) Template(id string) (domain.MilestoneTemplate, bool) {
	t, ok := c.templates[id]
	if !ok {
		return domain.MilestoneTemplate{}, false
	}
	return copyTemplate(t), true
}

// IDs returns all template ids in lexicographic order.
func (c *Catalog) IDs() []string {
	return append([]string{}, c.ids...)
}

// TopologicalIDs returns all template ids in deterministic dependency order.
func (c *Catalog) TopologicalIDs() []string {
	return append([]string{}, c.topo...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.templates) }

// LeadTime returns the default lead-time estimate for key.
func (c *Catalog) LeadTime(key string) (domain.LeadTime, bool) {
	lt, ok := c.leadTimes[key]
	return lt, ok
}

// LeadTimes returns a copy of the lead-time table.
func (c *Catalog) LeadTimes() map[string]domain.LeadTime {
	out := make(map[string]domain.LeadTime, len(c.leadTimes))
	for k, v := range c.leadTimes {
		out[k] = v
	}
	return out
}

// ByWorkstream returns the templates of one workstream in id order.
func (c *Catalog) ByWorkstream(ws domain.Workstream) []domain.MilestoneTemplate {
	var out []domain.MilestoneTemplate
	for _, id := range c.ids {
		if t := c.templates[id]; t.Workstream == ws {
			out = append(out, copyTemplate(t))
		}
	}
	return out
}

func copyTemplate(t domain.MilestoneTemplate) domain.MilestoneTemplate {
	t.Predecessors = append([]string{}, t.Predecessors...)
	t.AccelerationOptions = append([]string{}, t.AccelerationOptions...)
	return t
}
