package config

import (
	"strings"
	"time"
)

// DiscoverySource selects which discovery strategy to run.
type DiscoverySource string

const (
	SourceBadge      DiscoverySource = "badge"
	SourceStargazers DiscoverySource = "stargazers"
	SourceAll        DiscoverySource = "all"
)

// NormalizeDiscoverySource canonicalizes a source string or returns empty if unknown.
func NormalizeDiscoverySource(raw string) DiscoverySource {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(SourceBadge):
		return SourceBadge
	case string(SourceStargazers):
		return SourceStargazers
	case string(SourceAll):
		return SourceAll
	default:
		return ""
	}
}

// Default discovery settings. The badge pattern points at the repository
// whose rendered dashboards embed the badge; the metrics path marker is the
// directory normalized targets publish into.
const (
	DefaultMaxPages           = 10
	DefaultPerPage            = 100
	DefaultBadgeURLPattern    = "inful/metricsync"
	DefaultMetricsPathPattern = "/metrics/"
	DefaultReferenceOwner     = "inful"
	DefaultReferenceRepo      = "metricsync"
)

// RetryConfig mirrors the YAML retry policy surface for discovery page
// fetches. All zero values fall back to defaults when converted to a policy.
type RetryConfig struct {
	MaxAttempts   int     `yaml:"max_attempts,omitempty"`
	InitialDelay  string  `yaml:"initial_delay,omitempty"` // duration string (default 1s)
	BackoffFactor float64 `yaml:"backoff_factor,omitempty"`
}

// InitialDelayDuration parses the configured delay, returning 0 for
// unset/invalid values so the retry package can apply its default.
func (r RetryConfig) InitialDelayDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(r.InitialDelay))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// DiscoveryConfig configures the discovery client.
type DiscoveryConfig struct {
	// MaxPages bounds how many result pages each strategy fetches. Results
	// beyond the bound are deliberately truncated, not an error.
	MaxPages int `yaml:"max_pages,omitempty"`
	// PerPage is the page size requested from the API.
	PerPage int `yaml:"per_page,omitempty"`
	// BadgeURLPattern is the substring identifying badge references in code
	// search results and README images.
	BadgeURLPattern string `yaml:"badge_url_pattern,omitempty"`
	// MetricsPathPattern is the substring identifying the metrics artifact
	// path next to a badge reference.
	MetricsPathPattern string `yaml:"metrics_path_pattern,omitempty"`
	// ReferenceOwner/ReferenceRepo name the repository whose stargazers are
	// scanned by the stargazer strategy.
	ReferenceOwner string `yaml:"reference_owner,omitempty"`
	ReferenceRepo  string `yaml:"reference_repo,omitempty"`
	// Retry applies to each individual page fetch.
	Retry RetryConfig `yaml:"retry,omitempty"`
}

// ApplyDefaults fills unset discovery fields in place.
func (d *DiscoveryConfig) ApplyDefaults() {
	if d.MaxPages <= 0 {
		d.MaxPages = DefaultMaxPages
	}
	if d.PerPage <= 0 || d.PerPage > 100 {
		d.PerPage = DefaultPerPage
	}
	if strings.TrimSpace(d.BadgeURLPattern) == "" {
		d.BadgeURLPattern = DefaultBadgeURLPattern
	}
	if strings.TrimSpace(d.MetricsPathPattern) == "" {
		d.MetricsPathPattern = DefaultMetricsPathPattern
	}
	if strings.TrimSpace(d.ReferenceOwner) == "" {
		d.ReferenceOwner = DefaultReferenceOwner
	}
	if strings.TrimSpace(d.ReferenceRepo) == "" {
		d.ReferenceRepo = DefaultReferenceRepo
	}
}
