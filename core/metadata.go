package core

// WidgetLayoutType selects how the console lays out a widget's frame.
type WidgetLayoutType string

const (
	WidgetLayoutDefault WidgetLayoutType = "DEFAULT"
	WidgetLayoutNone    WidgetLayoutType = "NONE"
)

// PropertyType is the value type of a widget configuration property.
type PropertyType string

const (
	PropertyTypeString  PropertyType = "STRING"
	PropertyTypeInteger PropertyType = "INTEGER"
	PropertyTypeBoolean PropertyType = "BOOLEAN"
	PropertyTypeFloat   PropertyType = "FLOAT"
	PropertyTypeMetric  PropertyType = "METRIC"
)

// WidgetProperty is one named configuration slot a widget exposes.
type WidgetProperty struct {
	Key          string       `json:"key"`
	Type         PropertyType `json:"type,omitempty"`
	DefaultValue string       `json:"default_value,omitempty"`
	Optional     bool         `json:"optional"`
	Description  string       `json:"description,omitempty"`
}

// Required reports whether a user must supply a value before the widget
// can render: the property is not optional and carries no default.
func (p WidgetProperty) Required() bool {
	return !p.Optional && p.DefaultValue == ""
}

// ViewMetadata supplies the declared metadata facets for one view. Each
// method returns the declared values and whether the facet was declared
// at all; an undeclared facet falls back to the descriptor default.
// Implementations are pure lookups with no failure mode other than
// "not declared".
type ViewMetadata interface {
	NavigationSections() ([]string, bool)
	UserRoles() ([]string, bool)
	ResourceScopes() ([]string, bool)
	ResourceQualifiers() ([]string, bool)
	ResourceLanguages() ([]string, bool)

	// DefaultTab returns the metric keys the view is the default tab
	// for. Declared with no metrics means "default for everything".
	DefaultTab() ([]string, bool)

	Description() (string, bool)

	WidgetProperties() ([]WidgetProperty, bool)
	WidgetCategories() ([]string, bool)
	WidgetLayout() (WidgetLayoutType, bool)
	WidgetScope() ([]string, bool)

	// RequiredMeasures returns the measure keys gating applicability:
	// every allOf measure must be available, and at least one anyOf
	// measure when anyOf is non-empty.
	RequiredMeasures() (allOf []string, anyOf []string, declared bool)
}

// DefaultTabSpec declares a view as a default tab. An empty Metrics list
// makes the view the default for all metrics.
type DefaultTabSpec struct {
	Metrics []string
}

// RequiredMeasuresSpec declares the measures a view needs to be applicable.
type RequiredMeasuresSpec struct {
	AllOf []string
	AnyOf []string
}

// StaticMetadata is the declaration-style ViewMetadata implementation
// hosts and plugins use directly. A nil slice or pointer field means the
// facet is not declared; a non-nil empty slice means declared-but-empty.
// Info is treated as undeclared when empty, which is observationally
// identical to a declared empty description.
type StaticMetadata struct {
	Sections     []string
	Roles        []string
	Scopes       []string
	Qualifiers   []string
	Languages    []string
	Tab          *DefaultTabSpec
	Info         string
	Properties   []WidgetProperty
	Categories   []string
	Layout       WidgetLayoutType
	WidgetScopes []string
	Measures     *RequiredMeasuresSpec
}

func (m *StaticMetadata) NavigationSections() ([]string, bool) { return m.Sections, m.Sections != nil }
func (m *StaticMetadata) UserRoles() ([]string, bool)          { return m.Roles, m.Roles != nil }
func (m *StaticMetadata) ResourceScopes() ([]string, bool)     { return m.Scopes, m.Scopes != nil }
func (m *StaticMetadata) ResourceQualifiers() ([]string, bool) { return m.Qualifiers, m.Qualifiers != nil }
func (m *StaticMetadata) ResourceLanguages() ([]string, bool)  { return m.Languages, m.Languages != nil }

func (m *StaticMetadata) DefaultTab() ([]string, bool) {
	if m.Tab == nil {
		return nil, false
	}
	return m.Tab.Metrics, true
}

func (m *StaticMetadata) Description() (string, bool) { return m.Info, m.Info != "" }

func (m *StaticMetadata) WidgetProperties() ([]WidgetProperty, bool) {
	return m.Properties, m.Properties != nil
}

func (m *StaticMetadata) WidgetCategories() ([]string, bool) {
	return m.Categories, m.Categories != nil
}

func (m *StaticMetadata) WidgetLayout() (WidgetLayoutType, bool) { return m.Layout, m.Layout != "" }
func (m *StaticMetadata) WidgetScope() ([]string, bool) {
	return m.WidgetScopes, m.WidgetScopes != nil
}

func (m *StaticMetadata) RequiredMeasures() ([]string, []string, bool) {
	if m.Measures == nil {
		return nil, nil, false
	}
	return m.Measures.AllOf, m.Measures.AnyOf, true
}
