package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/metrics"
	"github.com/mamadbah2/farmdash/internal/mockdata"
	"github.com/mamadbah2/farmdash/internal/server/handlers"
	"github.com/mamadbah2/farmdash/internal/service/operations"
	"github.com/mamadbah2/farmdash/internal/service/reporting"
	"github.com/mamadbah2/farmdash/internal/store"
)

func newEngine(t *testing.T) http.Handler {
	t.Helper()
	gen := mockdata.New(mockdata.WithSeed(5))
	st := store.New(gen.Snapshot(), gen)

	collector := metrics.New()
	collector.Observe(st.Snapshot())
	st.Subscribe(collector.Listener())

	h := handlers.NewFarmHandler(st, operations.NewService(st, nil), reporting.NewService(st, time.UTC, nil), nil, nil)
	return New(h, collector.Handler(), nil)
}

func TestRoutes(t *testing.T) {
	r := newEngine(t)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/snapshot", http.StatusOK},
		{http.MethodGet, "/api/dashboard", http.StatusOK},
		{http.MethodGet, "/api/controls", http.StatusOK},
		{http.MethodPost, "/api/controls/1/toggle", http.StatusOK},
		{http.MethodGet, "/api/alerts", http.StatusOK},
		{http.MethodGet, "/api/maintenance", http.StatusOK},
		{http.MethodGet, "/api/analytics", http.StatusOK},
		{http.MethodGet, "/api/reports", http.StatusOK},
		{http.MethodGet, "/api/reports/archive", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/refresh", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/alerts/1/read", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `farmdash_store_mutations_total{kind="alert_read"} 1`)
}
