package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"reservation-coordinator/internal/game"
)

func (s *Server) registerGameTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_game",
			mcp.WithDescription("Get the game state, round timer and participant counts"),
		),
		s.handleGetGame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_customers",
			mcp.WithDescription("List the customers of the current round with their best scores"),
		),
		s.handleListCustomers,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_routes",
			mcp.WithDescription("List bookable offers grouped by city pair"),
			mcp.WithString("pair", mcp.Description("Optional city pair filter, e.g. A-B")),
		),
		s.handleListRoutes,
	)
}

func (s *Server) handleGetGame(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.coord.Game(ctx)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(g), nil
}

func (s *Server) handleListCustomers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.coord.Customers(ctx)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": items}), nil
}

func (s *Server) handleListRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routes, err := s.coord.Routes(ctx)
	if err != nil {
		return mapDomainError(err), nil
	}
	if raw := request.GetString("pair", ""); raw != "" {
		pair, err := game.CanonicalPair(raw)
		if err != nil {
			return toolError("invalid_request", err.Error()), nil
		}
		return toolResult(map[string]any{"routes": map[string]any{pair: routes[pair]}}), nil
	}
	return toolResult(map[string]any{"routes": routes}), nil
}
