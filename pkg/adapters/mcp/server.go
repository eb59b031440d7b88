package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
)

// DefaultSessionID is used by tools called without a session_id.
const DefaultSessionID = "mcp"

// KeysResourceURI serves the markdown key reference.
const KeysResourceURI = "tally://keys"

// DisplayResponse is the structured result of press_keys and get_display.
type DisplayResponse struct {
	SessionID  string `json:"session_id" jsonschema_description:"Session the display belongs to"`
	Expression string `json:"expression" jsonschema_description:"Pending expression line, empty when nothing is pending"`
	Value      string `json:"value" jsonschema_description:"Main display value, or Error"`
	Error      bool   `json:"error" jsonschema_description:"True while the calculator shows Error"`
}

// EvaluateResponse is the structured result of evaluate.
type EvaluateResponse struct {
	Result string `json:"result" jsonschema_description:"Normalized result"`
}

// PressKeysArgs are the arguments of press_keys.
type PressKeysArgs struct {
	SessionID string `mapstructure:"session_id"`
	Keys      string `mapstructure:"keys"`
}

// EvaluateArgs are the arguments of evaluate. Numbers are accepted in place of strings.
type EvaluateArgs struct {
	A  string  `mapstructure:"a"`
	B  *string `mapstructure:"b"`
	Op string  `mapstructure:"op"`
}

// DisplayArgs are the arguments of get_display.
type DisplayArgs struct {
	SessionID string `mapstructure:"session_id"`
}

// Server wraps the Tally Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance. Session state lives in sessions.
func NewServer(engine ports.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tally-mcp", strings.TrimSpace(tally.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

func (s *Server) registerTools() {
	pressTool := mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys, e.g. \"12.5 × 3 =\". State is kept per session between calls."),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Key script; see tally://keys for the accepted labels")),
		mcp.WithString("session_id", mcp.Description("Session to press keys in (optional)")),
		mcp.WithOutputSchema[DisplayResponse](),
	)
	s.mcpServer.AddTool(pressTool, mcp.NewStructuredToolHandler(s.handlePressKeys))

	evaluateTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Apply one operator to two operands without touching any session. Without op, normalizes a."),
		mcp.WithString("a", mcp.Required(), mcp.Description("Left operand")),
		mcp.WithString("b", mcp.Description("Right operand")),
		mcp.WithString("op", mcp.Description("Operator: + - × ÷ (or add, subtract, multiply, divide)")),
		mcp.WithOutputSchema[EvaluateResponse](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	displayTool := mcp.NewTool("get_display",
		mcp.WithDescription("Read the current display of a session."),
		mcp.WithString("session_id", mcp.Description("Session to read (optional)")),
		mcp.WithOutputSchema[DisplayResponse](),
	)
	s.mcpServer.AddTool(displayTool, mcp.NewStructuredToolHandler(s.handleGetDisplay))
}

// decodeArgs maps raw tool arguments onto a typed struct, converting numbers to strings.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

func sessionOrDefault(id string) string {
	if id == "" {
		return DefaultSessionID
	}
	return id
}

func (s *Server) handlePressKeys(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (DisplayResponse, error) {
	var req PressKeysArgs
	if err := decodeArgs(args, &req); err != nil {
		return DisplayResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	id := sessionOrDefault(req.SessionID)

	clean, err := runner.SanitizeInput(req.Keys)
	if err != nil {
		s.logger.Warn("MCP press_keys: Input rejected", "err", err, "size", len(req.Keys))
		return DisplayResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	var rich *runner.RichResponse
	_, err = s.sessions.Apply(ctx, id, func(current *domain.State) (*domain.State, error) {
		res, err := runner.PressAndRender(ctx, s.engine, current, clean)
		if err != nil {
			return nil, err
		}
		rich = res
		return res.State, nil
	})
	if err != nil {
		return DisplayResponse{}, fmt.Errorf("press failed: %w", err)
	}
	if rich.Diff != nil {
		s.logger.Debug("MCP press_keys: Display changed", "session_id", id)
	}
	return DisplayResponse{
		SessionID:  id,
		Expression: rich.Display.Expression,
		Value:      rich.Display.Value,
		Error:      rich.Display.IsError(),
	}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EvaluateResponse, error) {
	var req EvaluateArgs
	if err := decodeArgs(args, &req); err != nil {
		return EvaluateResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	op, err := domain.ParseOperator(req.Op)
	if err != nil {
		return EvaluateResponse{}, err
	}
	result, err := tally.Evaluate(req.A, req.B, op)
	if err != nil {
		return EvaluateResponse{}, err
	}
	return EvaluateResponse{Result: result}, nil
}

func (s *Server) handleGetDisplay(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (DisplayResponse, error) {
	var req DisplayArgs
	if err := decodeArgs(args, &req); err != nil {
		return DisplayResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	id := sessionOrDefault(req.SessionID)

	state, err := s.sessions.LoadOrStart(ctx, id)
	if err != nil {
		return DisplayResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return s.displayOf(ctx, id, state), nil
}

func (s *Server) displayOf(ctx context.Context, id string, state *domain.State) DisplayResponse {
	d := s.engine.Render(ctx, state)
	return DisplayResponse{
		SessionID:  id,
		Expression: d.Expression,
		Value:      d.Value,
		Error:      d.IsError(),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KeysResourceURI, "Calculator Keys",
		mcp.WithResourceDescription("Keypad labels and accepted aliases"),
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      KeysResourceURI,
				MIMEType: "text/markdown",
				Text:     domain.KeyReference(),
			},
		}, nil
	})
}
