package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCounters(t *testing.T) {
	m := New()

	m.PurchaseCreated("equal")
	m.PurchaseCreated("equal")
	m.PurchaseCreated("custom_percent")
	m.SettlementRecorded()
	m.SplitRejected("MissingAmounts")

	body := scrape(t, m)
	assert.Contains(t, body, `mealsplit_purchases_created_total{split_mode="equal"} 2`)
	assert.Contains(t, body, `mealsplit_purchases_created_total{split_mode="custom_percent"} 1`)
	assert.Contains(t, body, `mealsplit_settlements_recorded_total 1`)
	assert.Contains(t, body, `mealsplit_split_validation_failures_total{kind="MissingAmounts"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PurchaseCreated("equal")
		m.SettlementRecorded()
		m.SplitRejected("NoEligibleMembers")
	})
}

func TestMiddleware(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/rooms/{roomId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms/abc", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `route="/rooms/{roomId}"`)
	assert.Contains(t, body, `status="418"`)
}
