package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/lpk-cms-api/internal/service"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func observabilityRouter(h *MetricsHandler) *gin.Engine {
	return testRouter(nil, func(r *gin.Engine) {
		r.GET("/health", h.Health)
		r.GET("/ready", h.Ready)
		r.GET("/metrics", h.Prometheus)
	})
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	h := NewMetricsHandler(nil, pingerFunc(func(context.Context) error { return errors.New("connection refused") }))
	rec := perform(observabilityRouter(h), http.MethodGet, "/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestReadyAndHealthOK(t *testing.T) {
	h := NewMetricsHandler(nil, pingerFunc(func(context.Context) error { return nil }))
	r := observabilityRouter(h)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", "").Code)
}

func TestPrometheusExposesDomainCounters(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RegistrationCreated()
	rec := perform(observabilityRouter(NewMetricsHandler(metrics, nil)), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "registrations_created_total 1")
}

func TestPrometheusWithoutRegistry(t *testing.T) {
	rec := perform(observabilityRouter(NewMetricsHandler(nil, nil)), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
