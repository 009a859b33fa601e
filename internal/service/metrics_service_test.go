package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/grades", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/grades", http.StatusCreated, 40*time.Millisecond)
	m.ObserveAPICall(http.MethodGet, "/students", http.StatusOK, 10*time.Millisecond)
	m.ObserveAPICall(http.MethodGet, "/students", 0, 10*time.Millisecond)
	m.ObserveAPICall(http.MethodGet, "/students", http.StatusBadGateway, 10*time.Millisecond)
	m.ObserveAPICall(http.MethodGet, "/students", http.StatusNotFound, 10*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(4), snap.APICallsTotal)
	assert.Equal(t, uint64(2), snap.APIFailuresTotal)
	assert.InDelta(t, 10, snap.AverageAPICallDurationMs, 0.001)
	assert.Positive(t, snap.Goroutines)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveAPICall(http.MethodPut, "/grades/:id", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gradebook_api_calls_total{method="PUT",route="/grades/:id",status="200"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveAPICall(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
