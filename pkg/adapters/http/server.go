package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/internal/logging"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the Minsky API routes described in openapi.yaml.
type Server struct {
	Engine   *minsky.Engine
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithGatherer exposes the given registry on /metrics. Without it, /metrics serves the
// default Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *minsky.Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Logger:   logging.NewNop(),
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(server.logRequests)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec())
	})
	r.Get("/openapi.json", server.GetSpec)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", server.GetHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/interpret", server.Interpret)
		r.Post("/transpile", server.Transpile)
		r.Post("/validate", server.Validate)
		r.Get("/programs", server.ListPrograms)
		r.Get("/programs/{name}", server.GetProgram)
		r.Put("/programs/{name}", server.SaveProgram)
		r.Delete("/programs/{name}", server.DeleteProgram)
		r.Post("/programs/{name}/run", server.RunProgram)
	})

	return r
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Minsky API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Health{Status: "ok", Version: minsky.Version})
}

// GetSpec handles GET /openapi.json.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	doc, err := LoadSpec(r.Context())
	if err != nil {
		s.Logger.Error("Failed to load OpenAPI spec", "error", err)
		s.writeError(w, http.StatusInternalServerError, Error{Error: "failed to load spec"})
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// Interpret handles POST /v1/interpret.
func (s *Server) Interpret(w http.ResponseWriter, r *http.Request) {
	var body InterpretRequest
	if !s.decode(w, r, &body) {
		return
	}
	program, err := body.Program.Program(s.Engine)
	if err != nil {
		s.fail(w, err)
		return
	}

	run := s.Engine.Interpret
	if body.Transpile {
		run = s.Engine.InterpretTranspiled
	}
	res, err := run(r.Context(), program, body.Machine, body.Fuel)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RunResult{Steps: res.Steps, Machine: res.Machine, Trace: res.Trace})
}

// Transpile handles POST /v1/transpile.
func (s *Server) Transpile(w http.ResponseWriter, r *http.Request) {
	var body TranspileRequest
	if !s.decode(w, r, &body) {
		return
	}
	program, err := body.Program.Program(s.Engine)
	if err != nil {
		s.fail(w, err)
		return
	}
	if body.Machine != nil {
		if err := schema.ValidateMachine(program, *body.Machine); err != nil {
			s.fail(w, err)
			return
		}
	}

	t, err := s.Engine.Transpile(program)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := TranspileResponse{
		Program:       t.Program,
		Source:        compiler.Print(t.Program),
		States:        t.States.States(),
		OriginalTapes: t.OriginalTapes,
	}
	if body.Machine != nil {
		m := t.Machine(*body.Machine)
		resp.Machine = &m
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /v1/validate. Structural problems are reported in the body with
// status 200; only unparseable input is a 400.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ProgramPayload
	if !s.decode(w, r, &body) {
		return
	}
	program, err := body.Program(s.Engine)
	if err == nil {
		err = s.Engine.Validate(program)
	}

	details := errorDetails(err)
	if err != nil && len(details) == 0 {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: err == nil, Errors: details})
}

// ListPrograms handles GET /v1/programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ProgramList{Programs: names})
}

// GetProgram handles GET /v1/programs/{name}.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindName(w, r)
	if !ok {
		return
	}
	program, err := s.Engine.Load(r.Context(), name)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StoredProgram{Name: name, Program: program, Source: compiler.Print(program)})
}

// SaveProgram handles PUT /v1/programs/{name}.
func (s *Server) SaveProgram(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindName(w, r)
	if !ok {
		return
	}
	var body ProgramPayload
	if !s.decode(w, r, &body) {
		return
	}
	program, err := body.Program(s.Engine)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.Engine.Save(r.Context(), name, program); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StoredProgram{Name: name, Program: program, Source: compiler.Print(program)})
}

// DeleteProgram handles DELETE /v1/programs/{name}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindName(w, r)
	if !ok {
		return
	}
	if err := s.Engine.Delete(r.Context(), name); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunProgram handles POST /v1/programs/{name}/run?fuel=N.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindName(w, r)
	if !ok {
		return
	}

	var fuel int
	if err := runtime.BindQueryParameter("form", true, false, "fuel", r.URL.Query(), &fuel); err != nil {
		s.writeError(w, http.StatusBadRequest, Error{Error: "invalid fuel: " + err.Error()})
		return
	}
	if fuel < 0 {
		s.writeError(w, http.StatusBadRequest, Error{Error: "fuel must not be negative"})
		return
	}

	var machine domain.Machine
	if !s.decode(w, r, &machine) {
		return
	}

	res, err := s.Engine.Run(r.Context(), name, machine, fuel)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RunResult{Steps: res.Steps, Machine: res.Machine, Trace: res.Trace})
}

// -- Helpers --

func (s *Server) bindName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err == nil {
		err = domain.ValidateProgramName(name)
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, Error{Error: "invalid program name: " + err.Error()})
		return "", false
	}
	return name, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusBadRequest, Error{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var (
		oof        *domain.OutOfFuelError
		overflow   *domain.OverflowError
		parseErr   *compiler.ParseError
		structural = schema.StructuralErrors(err)
	)
	switch {
	case errors.As(err, &oof):
		s.writeError(w, http.StatusUnprocessableEntity, Error{Error: err.Error(), Steps: &oof.Steps, Fuel: &oof.Fuel})
	case errors.As(err, &overflow):
		s.writeError(w, http.StatusUnprocessableEntity, Error{Error: err.Error(), Steps: &overflow.Steps})
	case len(structural) > 0:
		s.writeError(w, http.StatusBadRequest, Error{Error: "malformed program", Details: errorDetails(err)})
	case errors.As(err, &parseErr), errors.Is(err, errMissingProgram), errors.Is(err, domain.ErrInvalidProgramName):
		s.writeError(w, http.StatusBadRequest, Error{Error: err.Error(), Details: errorDetails(err)})
	case errors.Is(err, domain.ErrProgramNotFound):
		s.writeError(w, http.StatusNotFound, Error{Error: err.Error()})
	default:
		s.Logger.Error("Request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, Error{Error: err.Error()})
	}
}

func errorDetails(err error) []ErrorDetail {
	if err == nil {
		return nil
	}
	var details []ErrorDetail
	for _, se := range schema.StructuralErrors(err) {
		d := ErrorDetail{Line: se.Line, Expected: se.Expected, Actual: se.Actual, Reason: se.Reason}
		if se.RuleIndex != schema.NoRule {
			d.Rule = ptr(se.RuleIndex)
		}
		details = append(details, d)
	}
	var parseErr *compiler.ParseError
	if errors.As(err, &parseErr) {
		details = append(details, ErrorDetail{Line: parseErr.Line, Reason: parseErr.Msg})
	}
	return details
}

func (s *Server) writeError(w http.ResponseWriter, status int, body Error) {
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
