// Package mcp exposes the remote control of a running phonebook as an MCP
// server, so that assistants can dial, reset and load phonebooks.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/protocol"
	"github.com/aretw0/fernspiel/pkg/runner"
)

// StatusURI is the resource holding the runner status.
const StatusURI = "fernspiel://status"

// Controller is the part of the runner the server drives.
type Controller interface {
	Submit(req protocol.Request) error
	Status() runner.Status
}

// Ack confirms that a request was queued for the main loop.
type Ack struct {
	Kind   string `json:"kind" jsonschema_description:"The kind of request that was queued"`
	Inputs int    `json:"inputs,omitempty" jsonschema_description:"Number of inputs dialed"`
}

// Server wraps a Controller and exposes it as an MCP Server.
type Server struct {
	controller Controller
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(controller Controller, version string, opts ...Option) *Server {
	s := &Server{
		controller: controller,
		logger:     logging.NewNop(),
		mcpServer:  server.NewMCPServer("fernspiel-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: dial
	dialTool := mcp.NewTool("dial",
		mcp.WithDescription("Dial on the telephone. Digits dial, p picks up, h hangs up, e.g. \"p12h\"."),
		mcp.WithString("inputs", mcp.Required(), mcp.Description("The inputs to dial in order")),
		mcp.WithOutputSchema[Ack](),
	)
	s.mcpServer.AddTool(dialTool, mcp.NewStructuredToolHandler(s.handleDial))

	// TOOL: reset
	resetTool := mcp.NewTool("reset",
		mcp.WithDescription("Start the current phonebook over at its initial state."),
		mcp.WithOutputSchema[Ack](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: run_phonebook
	runTool := mcp.NewTool("run_phonebook",
		mcp.WithDescription("Replace the running phonebook. The previous one keeps running if the new one is invalid."),
		mcp.WithString("phonebook", mcp.Required(), mcp.Description("The phonebook as a YAML document")),
		mcp.WithOutputSchema[Ack](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: status
	statusTool := mcp.NewTool("status",
		mcp.WithDescription("Get the current state of the telephone."),
		mcp.WithOutputSchema[runner.Status](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))
}

func (s *Server) submit(req protocol.Request) (Ack, error) {
	if err := s.controller.Submit(req); err != nil {
		s.logger.Warn("MCP: request rejected", "kind", req.Kind, "err", err)
		return Ack{}, fmt.Errorf("%s rejected: %w", req.Kind, err)
	}
	return Ack{Kind: string(req.Kind), Inputs: len(req.Inputs)}, nil
}

func (s *Server) handleDial(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (Ack, error) {
	text, _ := args["inputs"].(string)
	inputs, err := domain.ParseInputs(text)
	if err != nil {
		return Ack{}, err
	}
	if len(inputs) == 0 {
		return Ack{}, errors.New("nothing to dial")
	}
	return s.submit(protocol.Dial(inputs...))
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (Ack, error) {
	return s.submit(protocol.Reset())
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (Ack, error) {
	doc, _ := args["phonebook"].(string)
	spec, err := book.ParseSpec([]byte(doc))
	if err != nil {
		return Ack{}, err
	}
	return s.submit(protocol.Run(spec))
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runner.Status, error) {
	return s.controller.Status(), nil
}

func (s *Server) registerResources() {
	// EXPOSE: fernspiel://status
	s.mcpServer.AddResource(mcp.NewResource(StatusURI, "Telephone Status",
		mcp.WithMIMEType("application/json"),
	), s.readStatus)
}

func (s *Server) readStatus(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.controller.Status())
	if err != nil {
		return nil, fmt.Errorf("failed to encode status: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StatusURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
