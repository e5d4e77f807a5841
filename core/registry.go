package core

import (
	"sort"
	"sync"
)

// ResourceContext describes the resource a page or widget would be
// rendered against. Empty fields match everything, as does an empty
// declared list on the descriptor side.
type ResourceContext struct {
	Scope     string
	Qualifier string
	Language  string
}

// ViewRegistry is the in-process collection of view descriptors, one per
// registered plugin view. Registration builds the descriptor; selection
// queries are read-only over the stored snapshots and safe for
// concurrent use.
type ViewRegistry struct {
	mu        sync.RWMutex
	views     map[string]*ViewDescriptor
	logger    Logger
	telemetry Telemetry
}

// NewViewRegistry creates an empty registry with no-op observability.
func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{
		views:     make(map[string]*ViewDescriptor),
		logger:    &NoOpLogger{},
		telemetry: &NoOpTelemetry{},
	}
}

// SetLogger sets the logger used for registration events.
func (r *ViewRegistry) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetTelemetry sets the telemetry sink used for registration metrics.
func (r *ViewRegistry) SetTelemetry(telemetry Telemetry) {
	if telemetry != nil {
		r.telemetry = telemetry
	}
}

// Register builds the descriptor for view and stores it. A second
// registration under the same id is rejected; unload and reload the
// plugin instead of re-registering in place.
func (r *ViewRegistry) Register(view View, meta ViewMetadata) (*ViewDescriptor, error) {
	d, err := NewViewDescriptor(view, meta)
	if err != nil {
		r.logger.Error("Failed to build view descriptor", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}

	r.mu.Lock()
	if _, exists := r.views[d.ID()]; exists {
		r.mu.Unlock()
		r.logger.Warn("Rejected duplicate view registration", map[string]interface{}{
			"view_id": d.ID(),
		})
		return nil, &RegistryError{
			Op:   "registry.Register",
			Kind: "view",
			ID:   d.ID(),
			Err:  ErrAlreadyRegistered,
		}
	}
	r.views[d.ID()] = d
	total := len(r.views)
	r.mu.Unlock()

	r.logger.Info("View registered", map[string]interface{}{
		"view_id":    d.ID(),
		"title":      d.Title(),
		"is_widget":  d.IsWidget(),
		"is_page":    d.IsPage(),
		"is_global":  d.IsGlobal(),
		"sections":   d.Sections(),
		"descriptor": d.String(),
	})
	r.telemetry.RecordMetric("viewkit.views.registered", float64(total), map[string]string{
		"kind": view.Capabilities().String(),
	})

	return d, nil
}

// Unregister removes the descriptor stored under id.
func (r *ViewRegistry) Unregister(id string) error {
	r.mu.Lock()
	_, exists := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !exists {
		return &RegistryError{Op: "registry.Unregister", Kind: "view", ID: id, Err: ErrViewNotFound}
	}
	r.logger.Info("View unregistered", map[string]interface{}{"view_id": id})
	return nil
}

// Get returns the descriptor stored under id.
func (r *ViewRegistry) Get(id string) (*ViewDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.views[id]
	return d, ok
}

// All returns every descriptor ordered by title, ties broken by id.
func (r *ViewRegistry) All() []*ViewDescriptor {
	r.mu.RLock()
	out := make([]*ViewDescriptor, 0, len(r.views))
	for _, d := range r.views {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sortDescriptors(out)
	return out
}

// PagesForSection returns the page descriptors attached to section that
// match the resource context and whose required measures are satisfied
// by available. Results are ordered by title then id.
func (r *ViewRegistry) PagesForSection(section string, rc ResourceContext, available []string) []*ViewDescriptor {
	return r.filter(func(d *ViewDescriptor) bool {
		return d.IsPage() &&
			containsString(d.sections, section) &&
			matchesResource(d, rc) &&
			d.AcceptsAvailableMeasures(available)
	})
}

// Widgets returns every widget descriptor ordered by title then id.
func (r *ViewRegistry) Widgets() []*ViewDescriptor {
	return r.filter(func(d *ViewDescriptor) bool { return d.IsWidget() })
}

// GlobalWidgets returns the widgets declared with a GLOBAL scope.
func (r *ViewRegistry) GlobalWidgets() []*ViewDescriptor {
	return r.filter(func(d *ViewDescriptor) bool { return d.IsWidget() && d.IsGlobal() })
}

// DefaultTabFor picks the tab the console opens when showing metric on a
// resource: the first applicable page declaring the metric, otherwise
// the first applicable page declared as the default for everything.
// Returns nil when no page qualifies.
func (r *ViewRegistry) DefaultTabFor(metric string, rc ResourceContext, available []string) *ViewDescriptor {
	candidates := r.filter(func(d *ViewDescriptor) bool {
		return d.IsPage() && matchesResource(d, rc) && d.AcceptsAvailableMeasures(available)
	})

	for _, d := range candidates {
		if d.SupportsMetric(metric) {
			return d
		}
	}
	for _, d := range candidates {
		if d.IsDefaultTab() {
			return d
		}
	}
	return nil
}

// filter returns the sorted descriptors matching keep.
func (r *ViewRegistry) filter(keep func(*ViewDescriptor) bool) []*ViewDescriptor {
	r.mu.RLock()
	var out []*ViewDescriptor
	for _, d := range r.views {
		if keep(d) {
			out = append(out, d)
		}
	}
	r.mu.RUnlock()

	sortDescriptors(out)
	return out
}

func sortDescriptors(ds []*ViewDescriptor) {
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].Compare(ds[j]) < 0 })
}

// matchesResource reports whether the descriptor applies to the given
// resource context. A declared list restricts; an empty one accepts all.
func matchesResource(d *ViewDescriptor, rc ResourceContext) bool {
	return matchDeclared(d.resourceScopes, rc.Scope) &&
		matchDeclared(d.resourceQualifiers, rc.Qualifier) &&
		matchDeclared(d.resourceLanguages, rc.Language)
}

func matchDeclared(declared []string, value string) bool {
	if len(declared) == 0 || value == "" {
		return true
	}
	return containsString(declared, value)
}
