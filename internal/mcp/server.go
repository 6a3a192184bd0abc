// Package mcp exposes the emergency-care tools over the Model Context
// Protocol, on either stdio or streamable HTTP transport.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/klifeguard/emergency-finder/internal/application/services"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/observability"
)

const (
	serverName    = "k-lifeguard"
	serverVersion = "1.0.0"

	shutdownTimeout = 5 * time.Second
)

// Transport kinds accepted by Run.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Server wires the application services into an MCP tool server.
type Server struct {
	mcpServer *mcp.Server
}

// NewServer builds the MCP server and registers all tools.
func NewServer(
	recommendations *services.RecommendationService,
	sessions *services.SessionService,
	pharmacies *services.PharmacyService,
) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, SearchEmergencyTool(), SearchEmergencyHandler(recommendations))
	mcp.AddTool(mcpServer, ActivateEmergencyTool(), ActivateEmergencyHandler(sessions))
	mcp.AddTool(mcpServer, GetStatusTool(), GetStatusHandler(sessions))
	mcp.AddTool(mcpServer, FindPharmacyTool(), FindPharmacyHandler(pharmacies))

	return &Server{mcpServer: mcpServer}
}

// Run serves MCP on the selected transport and blocks until the context is
// canceled or the transport fails.
func (s *Server) Run(ctx context.Context, transport, httpAddr string) error {
	switch transport {
	case TransportStdio, "":
		return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return s.runHTTP(ctx, httpAddr)
	default:
		return fmt.Errorf("transport %q is not supported", transport)
	}
}

func (s *Server) runHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", CORSMiddleware(LoggingMiddleware(handler)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":%q}`, serverName)
	})

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	observability.GetLogger().Info().Str("addr", addr).Msg("starting MCP HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
