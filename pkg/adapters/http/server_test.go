package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/minsky"
	adapter "github.com/aretw0/minsky/pkg/adapters/http"
	"github.com/aretw0/minsky/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	eng := minsky.New(minsky.WithLifecycleHooks(metrics.Hooks()), minsky.WithTrace(true))
	return adapter.NewHandler(eng, adapter.WithGatherer(reg)), reg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestInterpret(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		tape0  int64
	}{
		{
			name:   "Text Source",
			body:   `{"program":{"source":"tapes: 2\n0 [1, -1] 0\n"},"machine":{"state":0,"tapes":[2,3]},"fuel":10}`,
			status: http.StatusOK,
			tape0:  5,
		},
		{
			name:   "Structured Program",
			body:   `{"program":{"tapes":2,"rules":[{"from":0,"to":0,"adjust":[1,-1]}]},"machine":{"state":0,"tapes":[4,4]}}`,
			status: http.StatusOK,
			tape0:  8,
		},
		{
			name:   "Transpiled",
			body:   `{"program":{"source":"tapes: 2\n0 [1, -1] 0\n"},"machine":{"state":0,"tapes":[2,3]},"fuel":10,"transpile":true}`,
			status: http.StatusOK,
			tape0:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/interpret", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			res := decode[adapter.RunResult](t, w)
			assert.Equal(t, tt.tape0, res.Machine.Tape(0))
			assert.NotEmpty(t, res.Trace)
		})
	}
}

func TestInterpret_Errors(t *testing.T) {
	h, _ := newTestServer(t)

	t.Run("Out Of Fuel", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret",
			`{"program":{"source":"tapes: 2\n0 [1, -1] 0\n"},"machine":{"state":0,"tapes":[2,3]},"fuel":2}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		body := decode[adapter.Error](t, w)
		require.NotNil(t, body.Steps)
		assert.Equal(t, 2, *body.Steps)
		assert.Equal(t, 2, *body.Fuel)
	})

	t.Run("Tape Overflow", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret",
			`{"program":{"source":"tapes: 2\n0 [1, -1] 0\n"},"machine":{"state":0,"tapes":[9223372036854775806,3]},"fuel":10}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		body := decode[adapter.Error](t, w)
		assert.Contains(t, body.Error, "overflow tape 0")
		require.NotNil(t, body.Steps)
		assert.Equal(t, 1, *body.Steps)
		assert.Nil(t, body.Fuel)
	})

	t.Run("Structural", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret",
			`{"program":{"source":"tapes: 2\n0 [1] 0\n"},"machine":{"state":0,"tapes":[2,3]}}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		body := decode[adapter.Error](t, w)
		require.Len(t, body.Details, 1)
		require.NotNil(t, body.Details[0].Rule)
		assert.Equal(t, 0, *body.Details[0].Rule)
		assert.Equal(t, 2, body.Details[0].Line)
	})

	t.Run("Syntax", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret",
			`{"program":{"source":"0 [1] 0"},"machine":{"state":0,"tapes":[1]}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Program", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret", `{"machine":{"state":0,"tapes":[1]}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Field", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret", `{"programme":{}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Machine Width", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/interpret",
			`{"program":{"source":"tapes: 2\n0 [1, -1] 0\n"},"machine":{"state":0,"tapes":[2]}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTranspile(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/transpile",
		`{"program":{"source":"tapes: 1\n0 [-1] 0\n0 [0] 1\n"},"machine":{"state":1,"tapes":[7]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[adapter.TranspileResponse](t, w)
	assert.Equal(t, 5, res.Program.NumTapes())
	assert.Equal(t, 3, res.Program.NumRules())
	assert.Equal(t, []int{0, 1}, res.States)
	assert.Equal(t, 1, res.OriginalTapes)
	assert.True(t, strings.HasPrefix(res.Source, "tapes: 5\n"))
	require.NotNil(t, res.Machine)
	assert.Equal(t, []int64{7, 0, 0, 1, 0}, []int64(res.Machine.Tapes))
}

func TestValidate(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/validate", `{"tapes":2,"rules":[{"from":0,"to":0,"adjust":[1,-1]}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[adapter.ValidateResponse](t, w).Valid)

	w = do(t, h, http.MethodPost, "/v1/validate", `{"tapes":2,"rules":[{"from":0,"to":0,"adjust":[1]},{"from":0,"to":1,"adjust":[1,2,3]}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[adapter.ValidateResponse](t, w)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)

	w = do(t, h, http.MethodPost, "/v1/validate", `{"source":"tapes: 1\n0 [x] 0\n"}`)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[adapter.ValidateResponse](t, w)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Line)
}

func TestPrograms_CRUD(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPut, "/v1/programs/adder", `{"source":"tapes: 2\n0 [1, -1] 0\n"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/programs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"adder"}, decode[adapter.ProgramList](t, w).Programs)

	w = do(t, h, http.MethodGet, "/v1/programs/adder", "")
	require.Equal(t, http.StatusOK, w.Code)
	stored := decode[adapter.StoredProgram](t, w)
	assert.Equal(t, "tapes: 2\n0 [1, -1] 0\n", stored.Source)

	w = do(t, h, http.MethodPost, "/v1/programs/adder/run?fuel=100", `{"state":0,"tapes":[20,22]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(42), decode[adapter.RunResult](t, w).Machine.Tape(0))

	w = do(t, h, http.MethodPost, "/v1/programs/adder/run?fuel=3", `{"state":0,"tapes":[20,22]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/v1/programs/adder/run?fuel=lots", `{"state":0,"tapes":[20,22]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/v1/programs/adder", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/v1/programs/adder", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/v1/programs/adder/run", `{"state":0,"tapes":[1,1]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrograms_InvalidName(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPut, "/v1/programs/bad%20name", `{"source":"tapes: 0\n"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndHealth(t *testing.T) {
	h, _ := newTestServer(t)

	do(t, h, http.MethodPost, "/v1/interpret",
		`{"program":{"source":"tapes: 2\n0 [1, -1] 0\n"},"machine":{"state":0,"tapes":[2,3]},"fuel":10}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "minsky_rules_fired_total 3")
	assert.Contains(t, w.Body.String(), `minsky_runs_total{outcome="halted"} 1`)

	w = do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adapter.Health{Status: "ok", Version: minsky.Version}, decode[adapter.Health](t, w))
}

func TestOpenAPI(t *testing.T) {
	doc, err := adapter.LoadSpec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, minsky.Version, doc.Info.Version)

	h, _ := newTestServer(t)
	w := do(t, h, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("openapi: 3.0.3")))

	w = do(t, h, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/v1/interpret"`)

	// Every documented API route is served.
	router, ok := h.(chi.Routes)
	require.True(t, ok)
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			rctx := chi.NewRouteContext()
			assert.True(t, router.Match(rctx, method, strings.ReplaceAll(path, "{name}", "x")), "%s %s not routed", method, path)
		}
	}
}
