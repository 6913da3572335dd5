// Package mcpserver exposes the agent side of the game as MCP tools over
// streamable HTTP.
package mcpserver

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"reservation-coordinator/internal/coordinator"
)

type Server struct {
	coord *coordinator.Coordinator

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(coord *coordinator.Coordinator) *Server {
	mcpSrv := server.NewMCPServer(
		"reservation-coordinator",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		coord:      coord,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerAgentTools()
	s.registerGameTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}
