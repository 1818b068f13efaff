package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/dialcode"
	"github.com/aretw0/dialcode/internal/dto"
	"github.com/aretw0/dialcode/internal/logging"
	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/menu"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MenuURI is the resource exposing the menu tree.
const MenuURI = "dialcode://menu"

// Engine defines what the MCP server needs from the dialog engine.
type Engine interface {
	ports.DialogEngine
	Menu() *menu.Menu
}

// USSDArgs are the arguments of the ussd_request tool, named as on the gateway wire.
type USSDArgs struct {
	UserID    string `json:"USERID"`
	MSISDN    string `json:"MSISDN"`
	UserData  string `json:"USERDATA"`
	MsgType   *bool  `json:"MSGTYPE,omitempty"`
	SessionID string `json:"SESSIONID"`
}

// Server wraps the dialog engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("dialcode-mcp", strings.TrimSpace(dialcode.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+host))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

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
	ussdTool := mcp.NewTool("ussd_request",
		mcp.WithDescription("Send one gateway request (a dial string or a menu choice) and get the next screen. "+
			"MSGTYPE in the result is false once the session has ended."),
		mcp.WithString("SESSIONID", mcp.Required(), mcp.Description("Opaque session identifier, reused for every request of a dial")),
		mcp.WithString("USERDATA", mcp.Required(), mcp.Description("Dialed text, e.g. *920*1806# or a single choice such as 2")),
		mcp.WithString("USERID", mcp.Description("Application identifier, echoed back")),
		mcp.WithString("MSISDN", mcp.Description("Subscriber phone number, echoed back")),
		mcp.WithBoolean("MSGTYPE", mcp.Description("True on the first request of a dial (default true)")),
		mcp.WithOutputSchema[dto.GatewayResponse](),
	)
	s.mcpServer.AddTool(ussdTool, mcp.NewStructuredToolHandler(s.handleUSSD))

	s.mcpServer.AddTool(mcp.NewTool("describe_menu",
		mcp.WithDescription("Describe the menu tree: screens, choices and the summary template."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body, err := json.Marshal(s.engine.Menu())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	})
}

func (s *Server) handleUSSD(ctx context.Context, request mcp.CallToolRequest, args USSDArgs) (dto.GatewayResponse, error) {
	clean, err := dial.SanitizeInput(args.UserData)
	if err != nil {
		s.logger.Warn("MCP USSD: Input rejected", "err", err, "size", len(args.UserData))
		return dto.GatewayResponse{}, toolError(err)
	}

	req := dto.GatewayRequest{
		UserID:    args.UserID,
		MSISDN:    args.MSISDN,
		UserData:  clean,
		MsgType:   args.MsgType,
		SessionID: args.SessionID,
	}
	resp, err := s.engine.Handle(ctx, req.ToDomain())
	if err != nil {
		return dto.GatewayResponse{}, toolError(err)
	}
	return dto.NewGatewayResponse(resp), nil
}

// toolError prefixes err with its stable code so agents can branch on it.
func toolError(err error) error {
	var ce *domain.ChoiceError
	if errors.As(err, &ce) {
		return fmt.Errorf("%s: %w (screen %d)", domain.Code(err), err, ce.Screen)
	}
	return fmt.Errorf("%s: %w", domain.Code(err), err)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(MenuURI, "Menu tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		body, err := json.Marshal(s.engine.Menu())
		if err != nil {
			return nil, fmt.Errorf("failed to encode menu: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      MenuURI,
				MIMEType: "application/json",
				Text:     string(body),
			},
		}, nil
	})
}
