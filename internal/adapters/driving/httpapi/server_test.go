package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
	"github.com/custodia-labs/taxclause/internal/core/services"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	engine, err := services.NewDefaultClauseEngine()
	require.NoError(t, err)
	srv, err := NewServer(services.NewContractService(memory.NewContractStore(), engine), opts)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestNewServer_RequiresContractService(t *testing.T) {
	_, err := NewServer(nil, Options{})
	assert.ErrorIs(t, err, ErrMissingContractService)
}

func TestServer_Root(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := do(t, h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestServer_Info(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := do(t, h, http.MethodGet, "/contracts", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true, "use": [
		"POST /contracts",
		"GET /contracts/{cid}/clauses",
		"POST /contracts/{cid}/evaluate"
	]}`, w.Body.String())
}

func TestServer_IndexAndEvaluate(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := do(t, h, http.MethodPost, "/contracts", `{"id":"c1","text":"Payments are subject to withholding tax."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"indexed":"c1"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/contracts/c1/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)

	var eval domain.Evaluation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &eval))
	assert.Equal(t, "c1", eval.ContractID)
	assert.Equal(t, domain.Summary{WithholdingTax: true}, eval.Summary)
	require.Len(t, eval.Issues, 1)
	assert.Equal(t, services.RuleGrossUpRequired, eval.Issues[0].ID)
	assert.Equal(t, domain.SeverityHigh, eval.Issues[0].Severity)
}

func TestServer_Clauses(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/contracts", `{"id":"c2","text":"The gross-up applies."}`).Code)

	w := do(t, h, http.MethodGet, "/contracts/c2/clauses", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"contractId": "c2",
		"clauses": [
			{"name": "GrossUp", "match": "gross-up", "span": [4, 12], "snippet": "The gross-up applies."}
		]
	}`, w.Body.String())
}

func TestServer_EmptyArraysNotNull(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/contracts", `{"id":"blank","text":""}`).Code)

	w := do(t, h, http.MethodPost, "/contracts/blank/evaluate", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{}, body["clauses"])
	assert.Equal(t, []any{}, body["issues"])
}

func TestServer_NotFound(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/contracts/missing/clauses"},
		{http.MethodPost, "/contracts/missing/evaluate"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"detail":"contract not found"}`, w.Body.String())
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := do(t, h, http.MethodGet, "/nowhere", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_IndexValidation(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"malformed", `{"id":`, "invalid JSON body"},
		{"wrong type", `{"id":1,"text":"x"}`, "invalid JSON body"},
		{"missing id", `{"text":"x"}`, "field required: id"},
		{"missing text", `{"id":"x"}`, "field required: text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/contracts", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, decode(t, w)["detail"], tt.detail)
		})
	}
}

func TestServer_IndexBodyTooLarge(t *testing.T) {
	h := newTestServer(t, Options{MaxBodyBytes: 64}).Handler()

	body := `{"id":"big","text":"` + strings.Repeat("VAT ", 64) + `"}`
	w := do(t, h, http.MethodPost, "/contracts", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"detail":"request body too large"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/contracts/big/clauses", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_IndexDefaultBodyLimit(t *testing.T) {
	srv := newTestServer(t, Options{})
	assert.Equal(t, int64(defaultMaxBodyBytes), srv.maxBodyBytes)

	w := do(t, srv.Handler(), http.MethodPost, "/contracts", `{"id":"small","text":"VAT"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_IndexEmptyID(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := do(t, h, http.MethodPost, "/contracts", `{"id":"","text":"VAT"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"indexed":""}`, w.Body.String())
}

type failingContracts struct {
	driving.ContractService
}

func (failingContracts) GetClauses(context.Context, string) (*domain.ClauseReport, error) {
	return nil, errors.New("disk on fire")
}

func TestServer_InternalError(t *testing.T) {
	srv, err := NewServer(failingContracts{}, Options{})
	require.NoError(t, err)

	w := do(t, srv.Handler(), http.MethodGet, "/contracts/x/clauses", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"internal error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestServer_RequestID(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := do(t, h, http.MethodGet, "/", "")
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestServer_RateLimit(t *testing.T) {
	h := newTestServer(t, Options{RateLimit: 0.001, Burst: 2}).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)

	w := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestServer_RateLimitDisabled(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)
	}
}

func TestServer_Serve(t *testing.T) {
	srv := newTestServer(t, Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Post(base+"/contracts", "application/json",
		bytes.NewBufferString(`{"id":"live","text":"Sales tax applies."}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/contracts/live/clauses")
	require.NoError(t, err)
	var report domain.ClauseReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	resp.Body.Close()
	require.Len(t, report.Clauses, 1)
	assert.Equal(t, domain.ClauseVAT, report.Clauses[0].Name)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunBadAddr(t *testing.T) {
	srv := newTestServer(t, Options{})

	err := srv.Run(context.Background(), "127.0.0.1:-1")
	assert.Error(t, err)
}
