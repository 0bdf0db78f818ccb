package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/internal/logging"
	"github.com/aretw0/minsky/internal/presentation/graph"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/library"
	"github.com/aretw0/minsky/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// LibraryURI is the resource listing the reference programs.
const LibraryURI = "minsky://library"

// ProgramArgs identifies a program by source or by stored name.
type ProgramArgs struct {
	Program string `json:"program,omitempty"`
	Format  string `json:"format,omitempty"`
	Name    string `json:"name,omitempty"`
}

// RunArgs are the arguments of the interpret tool.
type RunArgs struct {
	ProgramArgs
	State     int     `json:"state"`
	Tapes     []int64 `json:"tapes"`
	Fuel      int     `json:"fuel,omitempty"`
	Transpile bool    `json:"transpile,omitempty"`
}

// RunResponse aligns with the HTTP RunResult schema.
type RunResponse struct {
	Steps   int            `json:"steps" jsonschema_description:"Number of rule firings"`
	Machine domain.Machine `json:"machine" jsonschema_description:"The halted machine"`
}

// TranspileResponse summarizes the single-state program.
type TranspileResponse struct {
	Source        string         `json:"source" jsonschema_description:"Transpiled program in text format"`
	Tapes         int            `json:"tapes"`
	Rules         int            `json:"rules"`
	States        []domain.State `json:"states" jsonschema_description:"Original states in relabeling order"`
	OriginalTapes int            `json:"original_tapes"`
}

// ValidateResponse lists structural problems, if any.
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// LibraryEntry describes one reference program.
type LibraryEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Server wraps the Minsky Engine and exposes it as an MCP Server.
type Server struct {
	engine    *minsky.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *minsky.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("minsky-mcp", minsky.Version, server.WithRecovery()),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. to serve it on a custom transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func programOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("program", mcp.Description("Program source, e.g. \"tapes: 2\\n0 [1, -1] 0\". Ignored when name is set.")),
		mcp.WithString("format", mcp.Description("Source format: text (default) or yaml"), mcp.Enum("text", "yaml")),
		mcp.WithString("name", mcp.Description("Name of a stored program or of a library program (adder, mult, mult6)")),
	}
}

func (s *Server) registerTools() {
	interpretOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Run a Minsky program until it halts or the fuel runs out."),
		mcp.WithNumber("state", mcp.Description("Initial state (default 0)")),
		mcp.WithArray("tapes", mcp.Required(), mcp.Description("Initial tape values, one per tape"),
			mcp.Items(map[string]any{"type": "integer", "minimum": 0})),
		mcp.WithNumber("fuel", mcp.Description("Maximum number of rule firings (default: server budget)")),
		mcp.WithBoolean("transpile", mcp.Description("Run the single-state equivalent and project the result back")),
		mcp.WithOutputSchema[RunResponse](),
	}, programOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("interpret", interpretOpts...), mcp.NewStructuredToolHandler(s.handleInterpret))

	transpileOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Rewrite a program into an equivalent single-state program."),
		mcp.WithOutputSchema[TranspileResponse](),
	}, programOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("transpile", transpileOpts...), mcp.NewStructuredToolHandler(s.handleTranspile))

	validateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Check a program for structural problems."),
		mcp.WithOutputSchema[ValidateResponse](),
	}, programOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("validate", validateOpts...), mcp.NewStructuredToolHandler(s.handleValidate))

	graphOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Render the program's state graph as a Mermaid flowchart."),
	}, programOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("graph", graphOpts...), s.handleGraph)

	s.mcpServer.AddTool(mcp.NewTool("list_programs",
		mcp.WithDescription("List the names of stored programs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.engine.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// resolve loads the program named in args or parses its source. A name the store does
// not know falls back to the library; any other store failure is returned as is.
func (s *Server) resolve(ctx context.Context, args ProgramArgs) (*domain.Program, error) {
	if args.Name != "" {
		p, err := s.engine.Load(ctx, args.Name)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrProgramNotFound) {
			return nil, fmt.Errorf("failed to load %q: %w", args.Name, err)
		}
		if entry, ok := library.Lookup(args.Name); ok {
			return entry.Program, nil
		}
		return nil, err
	}
	if args.Program == "" {
		return nil, errors.New("either program or name is required")
	}
	format := minsky.FormatText
	if args.Format != "" {
		format = minsky.Format(args.Format)
	}
	return s.engine.Parse([]byte(args.Program), format)
}

func (s *Server) handleInterpret(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	p, err := s.resolve(ctx, args.ProgramArgs)
	if err != nil {
		return RunResponse{}, err
	}

	run := s.engine.Interpret
	if args.Transpile {
		run = s.engine.InterpretTranspiled
	}
	res, err := run(ctx, p, domain.NewMachine(args.State, args.Tapes...), args.Fuel)
	if err != nil {
		s.logger.Warn("MCP interpret failed", "error", err)
		return RunResponse{}, err
	}
	return RunResponse{Steps: res.Steps, Machine: res.Machine}, nil
}

func (s *Server) handleTranspile(ctx context.Context, request mcp.CallToolRequest, args ProgramArgs) (TranspileResponse, error) {
	p, err := s.resolve(ctx, args)
	if err != nil {
		return TranspileResponse{}, err
	}
	t, err := s.engine.Transpile(p)
	if err != nil {
		return TranspileResponse{}, err
	}
	return TranspileResponse{
		Source:        compiler.Print(t.Program),
		Tapes:         t.Program.NumTapes(),
		Rules:         t.Program.NumRules(),
		States:        t.States.States(),
		OriginalTapes: t.OriginalTapes,
	}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ProgramArgs) (ValidateResponse, error) {
	p, err := s.resolve(ctx, args)
	if err == nil {
		err = s.engine.Validate(p)
	}
	if err == nil {
		return ValidateResponse{Valid: true}, nil
	}

	resp := ValidateResponse{}
	for _, se := range schema.StructuralErrors(err) {
		resp.Errors = append(resp.Errors, se.Error())
	}
	if len(resp.Errors) == 0 {
		resp.Errors = []string{err.Error()}
	}
	return resp, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ProgramArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	p, err := s.resolve(ctx, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(p, nil)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(LibraryURI, "Reference Programs",
		mcp.WithResourceDescription("Adder and multipliers in text format"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(LibraryEntries())
		if err != nil {
			return nil, fmt.Errorf("failed to encode library: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      LibraryURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// LibraryEntries lists the reference programs with their source.
func LibraryEntries() []LibraryEntry {
	var out []LibraryEntry
	for _, e := range library.All() {
		out = append(out, LibraryEntry{Name: e.Name, Description: e.Description, Source: compiler.Print(e.Program)})
	}
	return out
}
