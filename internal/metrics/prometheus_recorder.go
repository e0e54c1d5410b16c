package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	pagesFetched      *prom.CounterVec
	pageRetries       *prom.CounterVec
	pagesSkipped      *prom.CounterVec
	reposDiscovered   *prom.CounterVec
	discoveryDuration *prom.HistogramVec
	syncOutcomes      *prom.CounterVec
	targetsAppended   prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.pagesFetched = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "metricsync",
			Name:      "discovery_pages_fetched_total",
			Help:      "Result pages successfully fetched per discovery source",
		}, []string{"source"})
		pr.pageRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "metricsync",
			Name:      "discovery_page_retries_total",
			Help:      "Page fetch retries after transient failures",
		}, []string{"source"})
		pr.pagesSkipped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "metricsync",
			Name:      "discovery_pages_skipped_total",
			Help:      "Pages abandoned after exhausting the retry budget",
		}, []string{"source"})
		pr.reposDiscovered = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "metricsync",
			Name:      "discovery_repositories_total",
			Help:      "Candidate repositories discovered per source, before dedupe",
		}, []string{"source"})
		pr.discoveryDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "metricsync",
			Name:      "discovery_duration_seconds",
			Help:      "Wall-clock duration of discovery runs",
			Buckets:   prom.DefBuckets,
		}, []string{"source"})
		pr.syncOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "metricsync",
			Name:      "sync_outcomes_total",
			Help:      "Sync run outcomes by final status",
		}, []string{"outcome"})
		pr.targetsAppended = prom.NewCounter(prom.CounterOpts{
			Namespace: "metricsync",
			Name:      "sync_targets_appended_total",
			Help:      "Targets appended to the catalogue by sync runs",
		})
		reg.MustRegister(pr.pagesFetched, pr.pageRetries, pr.pagesSkipped, pr.reposDiscovered, pr.discoveryDuration, pr.syncOutcomes, pr.targetsAppended)
	})
	return pr
}

func (p *PrometheusRecorder) IncPageFetched(source string) {
	if p == nil || p.pagesFetched == nil {
		return
	}
	p.pagesFetched.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) IncPageRetry(source string) {
	if p == nil || p.pageRetries == nil {
		return
	}
	p.pageRetries.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) IncPageSkipped(source string) {
	if p == nil || p.pagesSkipped == nil {
		return
	}
	p.pagesSkipped.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) AddRepositoriesDiscovered(source string, n int) {
	if p == nil || p.reposDiscovered == nil || n <= 0 {
		return
	}
	p.reposDiscovered.WithLabelValues(source).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveDiscoveryDuration(source string, d time.Duration) {
	if p == nil || p.discoveryDuration == nil {
		return
	}
	p.discoveryDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSyncOutcome(outcome string) {
	if p == nil || p.syncOutcomes == nil {
		return
	}
	p.syncOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddTargetsAppended(n int) {
	if p == nil || p.targetsAppended == nil || n <= 0 {
		return
	}
	p.targetsAppended.Add(float64(n))
}
