package core

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// ViewDescriptor is the normalized, immutable snapshot of one view's
// declared metadata, built once when the view is registered. All fields
// are fixed at construction; the descriptor may be read concurrently
// without synchronization. Identity is the view's id: two descriptors
// are equal iff their ids are equal, regardless of any other field.
type ViewDescriptor struct {
	view View

	sections           []string
	userRoles          []string
	resourceScopes     []string
	resourceQualifiers []string
	resourceLanguages  []string
	defaultTabMetrics  []string
	description        string
	widgetProperties   map[string]WidgetProperty
	widgetCategories   []string
	widgetLayout       WidgetLayoutType
	isDefaultTab       bool
	isWidget           bool
	isPage             bool
	isGlobal           bool
	mandatoryMeasures  []string
	anyOfMeasures      []string
}

// NewViewDescriptor builds the descriptor for a view from its declared
// metadata. Each facet is probed independently; undeclared facets fall
// back to their defaults (navigation section HOME, everything else
// empty). Declared values are copied, never aliased, so later mutation
// of the source metadata cannot leak into the descriptor. meta may be
// nil when the view declares nothing.
//
// Construction either fully succeeds or fails: a widget scope token
// other than "PROJECT" or a case-insensitive "GLOBAL" is a programming
// mistake in the plugin and aborts the build.
func NewViewDescriptor(view View, meta ViewMetadata) (*ViewDescriptor, error) {
	if view == nil {
		return nil, NewRegistryError("core.NewViewDescriptor", "view", ErrNilView)
	}
	if view.ID() == "" {
		return nil, &RegistryError{
			Op:      "core.NewViewDescriptor",
			Kind:    "view",
			Message: fmt.Sprintf("view %T declares no id", view),
			Err:     ErrMissingViewID,
		}
	}

	d := &ViewDescriptor{
		view:             view,
		sections:         []string{SectionHome},
		widgetProperties: make(map[string]WidgetProperty),
		widgetLayout:     WidgetLayoutDefault,
		isWidget:         view.Capabilities().Has(CapabilityWidget),
		isPage:           view.Capabilities().Has(CapabilityPage),
	}
	if meta == nil {
		return d, nil
	}

	if v, ok := meta.NavigationSections(); ok {
		d.sections = copyStrings(v)
	}
	if v, ok := meta.UserRoles(); ok {
		d.userRoles = copyStrings(v)
	}
	if v, ok := meta.ResourceScopes(); ok {
		d.resourceScopes = copyStrings(v)
	}
	if v, ok := meta.ResourceQualifiers(); ok {
		d.resourceQualifiers = copyStrings(v)
	}
	if v, ok := meta.ResourceLanguages(); ok {
		d.resourceLanguages = copyStrings(v)
	}

	// Declared with no metrics means "default tab for everything";
	// declared with metrics means default only for those metrics, and
	// the flag stays false.
	if metrics, ok := meta.DefaultTab(); ok {
		if len(metrics) == 0 {
			d.isDefaultTab = true
		} else {
			d.defaultTabMetrics = copyStrings(metrics)
		}
	}

	if v, ok := meta.Description(); ok {
		d.description = v
	}

	// Duplicate property keys collapse, last declaration wins.
	if props, ok := meta.WidgetProperties(); ok {
		for _, p := range props {
			d.widgetProperties[p.Key] = p
		}
	}
	if v, ok := meta.WidgetCategories(); ok {
		d.widgetCategories = copyStrings(v)
	}
	if v, ok := meta.WidgetLayout(); ok {
		d.widgetLayout = v
	}

	if scopes, ok := meta.WidgetScope(); ok {
		for _, scope := range scopes {
			if scope != WidgetScopeProject && !strings.EqualFold(scope, WidgetScopeGlobal) {
				return nil, &RegistryError{
					Op:      "core.NewViewDescriptor",
					Kind:    "widget-scope",
					ID:      view.ID(),
					Message: fmt.Sprintf("invalid widget scope %q for widget %T", scope, view),
					Err:     ErrInvalidWidgetScope,
				}
			}
			if strings.EqualFold(scope, WidgetScopeGlobal) {
				d.isGlobal = true
			}
		}
	}

	if allOf, anyOf, ok := meta.RequiredMeasures(); ok {
		d.mandatoryMeasures = copyStrings(allOf)
		d.anyOfMeasures = copyStrings(anyOf)
	}

	return d, nil
}

// Target returns the wrapped view instance.
func (d *ViewDescriptor) Target() View { return d.view }

// ID returns the view's declared identity.
func (d *ViewDescriptor) ID() string { return d.view.ID() }

// Title returns the view's display title.
func (d *ViewDescriptor) Title() string { return d.view.Title() }

// IsController reports whether the view is routed by path rather than
// rendered inline: controller ids start with '/'.
func (d *ViewDescriptor) IsController() bool {
	return strings.HasPrefix(d.view.ID(), "/")
}

// Slice accessors return copies so callers cannot mutate the snapshot.

func (d *ViewDescriptor) Sections() []string           { return copyStrings(d.sections) }
func (d *ViewDescriptor) UserRoles() []string          { return copyStrings(d.userRoles) }
func (d *ViewDescriptor) ResourceScopes() []string     { return copyStrings(d.resourceScopes) }
func (d *ViewDescriptor) ResourceQualifiers() []string { return copyStrings(d.resourceQualifiers) }
func (d *ViewDescriptor) ResourceLanguages() []string  { return copyStrings(d.resourceLanguages) }
func (d *ViewDescriptor) DefaultTabMetrics() []string  { return copyStrings(d.defaultTabMetrics) }
func (d *ViewDescriptor) WidgetCategories() []string   { return copyStrings(d.widgetCategories) }
func (d *ViewDescriptor) MandatoryMeasures() []string  { return copyStrings(d.mandatoryMeasures) }
func (d *ViewDescriptor) AnyOfMeasures() []string      { return copyStrings(d.anyOfMeasures) }

func (d *ViewDescriptor) Description() string          { return d.description }
func (d *ViewDescriptor) WidgetLayout() WidgetLayoutType { return d.widgetLayout }
func (d *ViewDescriptor) IsDefaultTab() bool           { return d.isDefaultTab }
func (d *ViewDescriptor) IsWidget() bool               { return d.isWidget }
func (d *ViewDescriptor) IsPage() bool                 { return d.isPage }
func (d *ViewDescriptor) IsGlobal() bool               { return d.isGlobal }

// WidgetProperties returns the declared properties in no particular order.
func (d *ViewDescriptor) WidgetProperties() []WidgetProperty {
	props := make([]WidgetProperty, 0, len(d.widgetProperties))
	for _, p := range d.widgetProperties {
		props = append(props, p)
	}
	return props
}

// WidgetProperty returns the property declared under key, if any.
func (d *ViewDescriptor) WidgetProperty(key string) (WidgetProperty, bool) {
	p, ok := d.widgetProperties[key]
	return p, ok
}

// SupportsMetric reports whether the view declared itself the default
// tab for metricKey. Exact, case-sensitive match. A view that is the
// default tab for everything has an empty metric list and supports none.
func (d *ViewDescriptor) SupportsMetric(metricKey string) bool {
	return containsString(d.defaultTabMetrics, metricKey)
}

// AcceptsAvailableMeasures reports whether the available measures satisfy
// the view's declared requirements: every mandatory measure must be
// present, then at least one any-of measure when any were declared.
// Duplicate entries are harmless, matching is set membership.
func (d *ViewDescriptor) AcceptsAvailableMeasures(available []string) bool {
	for _, m := range d.mandatoryMeasures {
		if !containsString(available, m) {
			return false
		}
	}
	if len(d.anyOfMeasures) == 0 {
		return true
	}
	for _, m := range d.anyOfMeasures {
		if containsString(available, m) {
			return true
		}
	}
	return false
}

// IsEditable reports whether the widget exposes any configuration.
func (d *ViewDescriptor) IsEditable() bool {
	return len(d.widgetProperties) > 0
}

// HasRequiredProperties reports whether any property must be filled in
// before the widget can render. Every property is inspected so the
// outcome never depends on map iteration order.
func (d *ViewDescriptor) HasRequiredProperties() bool {
	required := false
	for _, p := range d.widgetProperties {
		if p.Required() {
			required = true
		}
	}
	return required
}

// Equal reports descriptor equality, which is id equality only.
func (d *ViewDescriptor) Equal(other *ViewDescriptor) bool {
	return other != nil && d.ID() == other.ID()
}

// Hash returns the FNV-1a hash of the view id, consistent with Equal.
func (d *ViewDescriptor) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(d.ID()))
	return h.Sum64()
}

// Compare orders descriptors by title, ties broken by id, so the order
// is a strict total order outside of true id equality.
func (d *ViewDescriptor) Compare(other *ViewDescriptor) int {
	if c := strings.Compare(d.Title(), other.Title()); c != 0 {
		return c
	}
	return strings.Compare(d.ID(), other.ID())
}

// String returns a diagnostic form for logging. Not used for equality
// or ordering.
func (d *ViewDescriptor) String() string {
	return fmt.Sprintf("view{id=%s sections=%v roles=%v scopes=%v qualifiers=%v languages=%v metrics=%v}",
		d.ID(), d.sections, d.userRoles, d.resourceScopes, d.resourceQualifiers,
		d.resourceLanguages, d.defaultTabMetrics)
}

// Helper functions

func copyStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
