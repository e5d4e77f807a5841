package core

import "time"

// Navigation sections a view can attach itself to. A view that declares
// no section lands in SectionHome.
const (
	SectionHome                  = "HOME"
	SectionResource              = "RESOURCE"
	SectionResourceTab           = "RESOURCE_TAB"
	SectionConfiguration         = "CONFIGURATION"
	SectionResourceConfiguration = "RESOURCE_CONFIGURATION"
)

// Widget scope tokens. These are the only values a widget may declare;
// anything else is rejected at descriptor construction.
const (
	WidgetScopeProject = "PROJECT"
	WidgetScopeGlobal  = "GLOBAL"
)

// Environment Variables
const (
	EnvName             = "VIEWKIT_NAME"              // Console host name
	EnvNamespace        = "VIEWKIT_NAMESPACE"         // Namespace for snapshot key isolation
	EnvRedisURL         = "VIEWKIT_REDIS_URL"         // Redis connection URL for snapshot publishing
	EnvRedisURLFallback = "REDIS_URL"                 // Standard Redis URL variable
	EnvSnapshotEnabled  = "VIEWKIT_SNAPSHOT_ENABLED"  // Enable descriptor snapshot publishing
	EnvSnapshotTTL      = "VIEWKIT_SNAPSHOT_TTL"      // Snapshot record TTL (Go duration)
	EnvLogLevel         = "VIEWKIT_LOG_LEVEL"         // debug, info, warn, error
	EnvLogFormat        = "VIEWKIT_LOG_FORMAT"        // json or text
	EnvTelemetryEnabled = "VIEWKIT_TELEMETRY_ENABLED" // Enable OpenTelemetry instrumentation
	EnvTelemetryService = "VIEWKIT_TELEMETRY_SERVICE" // Service name reported to telemetry
)

// Snapshot publishing defaults
const (
	// DefaultSnapshotNamespace prefixes every Redis key written by the
	// snapshot publisher. Format: <namespace>:views:<view-id>
	DefaultSnapshotNamespace = "viewkit"

	// DefaultSnapshotTTL bounds how long a published descriptor record
	// survives without a refresh. Views change only on plugin reload, so
	// a generous TTL keeps churn low.
	DefaultSnapshotTTL = 5 * time.Minute
)
