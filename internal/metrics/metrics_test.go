package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.Request("profile", 200)
	m.Request("profile", 200)
	m.Request("stats", 429)
	m.Retry("stats")
	m.Cycle(CycleStale)
	m.Channel("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("profile", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("stats", "429")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRetries.WithLabelValues("stats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues(CycleStale)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.channelRequests.WithLabelValues("ok")))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.Request("profile", 200)
	m.Retry("profile")
	m.Cycle(CyclePublished)
	m.Channel("ok")
}
