package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复初始化不会panic
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, BooksCreatedTotal)
	assert.NotNil(t, BooksStored)
	assert.NotNil(t, DiscountQueriesTotal)
	assert.NotNil(t, EventsPublishedTotal)
}

func TestBookCounters(t *testing.T) {
	InitMetrics()

	before := counterValue(t, BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)
	assert.Equal(t, before+2, counterValue(t, BooksCreatedTotal))
}

func TestCounterVec_ByResult(t *testing.T) {
	InitMetrics()

	ok := map[string]string{"result": ResultOK}
	noBooks := map[string]string{"result": ResultNoBooks}
	beforeOK := counterVecValue(t, DiscountQueriesTotal, ok)
	beforeNoBooks := counterVecValue(t, DiscountQueriesTotal, noBooks)

	IncCounterVec(DiscountQueriesTotal, ok)
	IncCounterVec(DiscountQueriesTotal, ok)
	IncCounterVec(DiscountQueriesTotal, noBooks)

	assert.Equal(t, beforeOK+2, counterVecValue(t, DiscountQueriesTotal, ok))
	assert.Equal(t, beforeNoBooks+1, counterVecValue(t, DiscountQueriesTotal, noBooks))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	SetGauge(BooksStored, 3)
	IncGauge(BooksStored)
	DecGauge(BooksStored)
	DecGauge(BooksStored)
	assert.Equal(t, 2.0, gaugeValue(t, BooksStored))

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "book-events"}, 1)
	var m dto.Metric
	require.NoError(t, CircuitBreakerState.With(map[string]string{"name": "book-events"}).Write(&m))
	assert.Equal(t, 1.0, m.GetGauge().GetValue())
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/books/:id"}
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.002)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.004)

	var m dto.Metric
	h := HTTPRequestDuration.With(labels).(prometheus.Histogram)
	require.NoError(t, h.Write(&m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(2))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func counterVecValue(t *testing.T, c *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	return counterValue(t, c.With(labels))
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}
