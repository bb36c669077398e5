package services_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/benmeehan/locate/internal/metrics"
	"github.com/benmeehan/locate/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMetricsService_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.Requests.WithLabelValues("ok").Inc()
	m.LastHPE.Set(12.5)

	service := services.NewMetricsService("127.0.0.1:0", reg, zerolog.Nop())
	require.NoError(t, service.Start())
	defer service.Stop()

	base := "http://" + service.Addr()

	status, body := get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `locate_requests_total{code="ok"} 1`)
	assert.Contains(t, body, "locate_last_hpe_meters 12.5")

	status, body = get(t, base+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
}

func TestMetricsService_StartStop(t *testing.T) {
	service := services.NewMetricsService("127.0.0.1:0", prometheus.NewRegistry(), zerolog.Nop())

	assert.Equal(t, "127.0.0.1:0", service.Addr())
	assert.EqualError(t, service.Stop(), "metrics service is not running")

	require.NoError(t, service.Start())
	assert.EqualError(t, service.Start(), "metrics service is already running")
	require.NoError(t, service.Stop())
	assert.Equal(t, "127.0.0.1:0", service.Addr())
}

func TestMetricsService_ListenError(t *testing.T) {
	service := services.NewMetricsService("256.0.0.1:bad", prometheus.NewRegistry(), zerolog.Nop())
	assert.Error(t, service.Start())
}
