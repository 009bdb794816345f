package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func router(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReadiness(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(router(NewHandler(pinger{}, nil)), "/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(router(NewHandler(nil, nil)), "/health/ready").Code)

	w := get(router(NewHandler(pinger{err: errors.New("down")}, nil)), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "DOWN")
}

func TestLiveness(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(router(NewHandler(pinger{err: errors.New("down")}, nil)), "/health/live").Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"})
	reg.MustRegister(c)
	c.Inc()

	w := get(router(NewHandler(nil, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))), "/health/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "probe_total 1")

	assert.Equal(t, http.StatusNotFound, get(router(NewHandler(nil, nil)), "/health/metrics").Code)
}
