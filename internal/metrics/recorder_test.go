package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncPageFetched("badge")
	r.IncPageRetry("badge")
	r.IncPageSkipped("stargazers")
	r.AddRepositoriesDiscovered("all", 3)
	r.ObserveDiscoveryDuration("all", time.Second)
	r.IncSyncOutcome("success")
	r.AddTargetsAppended(1)
}

func TestPrometheusRecorderCounters(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncPageFetched("badge")
	r.IncPageFetched("badge")
	r.IncPageSkipped("stargazers")
	r.AddRepositoriesDiscovered("badge", 5)
	r.AddTargetsAppended(2)
	r.IncSyncOutcome("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.pagesFetched.WithLabelValues("badge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.pagesSkipped.WithLabelValues("stargazers")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.reposDiscovered.WithLabelValues("badge")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.targetsAppended))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.syncOutcomes.WithLabelValues("success")))
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.IncPageFetched("badge")
	r.AddRepositoriesDiscovered("badge", -1)
	r.ObserveDiscoveryDuration("badge", time.Second)
}
