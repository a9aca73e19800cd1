package handoffhttp

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

	"github.com/simula-fin/simula/internal/handoff"
)

type memStore struct {
	payloads map[string]handoff.Payload
	next     int
}

func (m *memStore) Save(ctx context.Context, p handoff.Payload) (string, error) {
	if m.payloads == nil {
		m.payloads = map[string]handoff.Payload{}
	}
	m.next++
	token := "tok-" + string(rune('a'+m.next))
	m.payloads[token] = p
	return token, nil
}

func (m *memStore) Fetch(ctx context.Context, token string) (handoff.Payload, error) {
	p, ok := m.payloads[token]
	if !ok {
		return handoff.Payload{}, handoff.ErrNotFound
	}
	return p, nil
}

func newTestRouter(store Store) http.Handler {
	h := NewHandler(slog.Default(), store)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestHandoffSaveAndFetch(t *testing.T) {
	router := newTestRouter(&memStore{})

	body := `{"investment":5000,"horizon":3,"selections":[{"productId":"p1","zoneId":"zona1","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/handoff", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Token)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/handoff/"+created.Token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload handoff.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 5000.0, payload.Investment)
	require.Len(t, payload.Selections, 1)
	assert.Equal(t, "p1", payload.Selections[0].ProductID)
}

func TestHandoffFetchUnknownToken(t *testing.T) {
	router := newTestRouter(&memStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/handoff/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandoffSaveRejectsInvalidJSON(t *testing.T) {
	router := newTestRouter(&memStore{})

	req := httptest.NewRequest(http.MethodPost, "/handoff", strings.NewReader("nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
