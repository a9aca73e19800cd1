package simulationhttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simula-fin/simula/internal/simulation"
)

type stubService struct {
	lastReq simulation.Request
	result  simulation.Result
	err     error
}

func (s *stubService) Run(ctx context.Context, req simulation.Request) (simulation.Result, error) {
	s.lastReq = req
	return s.result, s.err
}

func newTestRouter(svc SimulationService) http.Handler {
	h := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestHandleSimulateOK(t *testing.T) {
	svc := &stubService{result: simulation.Result{
		Rows:    []simulation.PeriodRow{{Label: "Año 0", Investment: 1000, NetCashFlow: -1000, CumulativeCashFlow: -1000}},
		Metrics: simulation.Metrics{IRR: 25.5, PaybackPeriod: 2},
	}}
	router := newTestRouter(svc)

	body := `{"investment":1000,"horizon":3,"selections":[{"productId":"prod-a","zoneId":"zona1","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1000.0, svc.lastReq.Investment)
	require.Len(t, svc.lastReq.Selections, 1)
	assert.Equal(t, "prod-a", svc.lastReq.Selections[0].ProductID)
	assert.Equal(t, 2, svc.lastReq.Selections[0].Quantity)

	var res simulation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 25.5, res.Metrics.IRR)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Año 0", res.Rows[0].Label)
}

func TestHandleSimulateRejectsInvalidJSON(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSimulateValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"non-positive investment", `{"investment":0,"horizon":3,"selections":[{"productId":"p","zoneId":"zona1","quantity":1}]}`},
		{"zero horizon", `{"investment":1000,"horizon":0,"selections":[{"productId":"p","zoneId":"zona1","quantity":1}]}`},
		{"no selections", `{"investment":1000,"horizon":3,"selections":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{}
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.lastReq.Selections, "service must not run on invalid input")
		})
	}
}
