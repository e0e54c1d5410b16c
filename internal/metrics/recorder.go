package metrics

import "time"

// Recorder defines observability hooks for discovery and sync runs.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	IncPageFetched(source string)
	IncPageRetry(source string)
	IncPageSkipped(source string)
	AddRepositoriesDiscovered(source string, n int)
	ObserveDiscoveryDuration(source string, d time.Duration)
	IncSyncOutcome(outcome string) // outcome: success|rejected|failed
	AddTargetsAppended(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPageFetched(string)                       {}
func (NoopRecorder) IncPageRetry(string)                         {}
func (NoopRecorder) IncPageSkipped(string)                       {}
func (NoopRecorder) AddRepositoriesDiscovered(string, int)       {}
func (NoopRecorder) ObserveDiscoveryDuration(string, time.Duration) {}
func (NoopRecorder) IncSyncOutcome(string)                       {}
func (NoopRecorder) AddTargetsAppended(int)                      {}
