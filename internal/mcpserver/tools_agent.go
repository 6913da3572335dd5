package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAgentTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"register_agent",
			mcp.WithDescription("Register a new agent and open its mailbox"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Agent name")),
		),
		s.handleRegisterAgent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"agent_ping",
			mcp.WithDescription("Heartbeat. Returns game state, timer and queued messages. Pass the previous seq+1 to acknowledge the last batch."),
			mcp.WithNumber("agent_id", mcp.Required(), mcp.Description("Agent id")),
			mcp.WithNumber("seq", mcp.Description("Mailbox sequence, default 0")),
		),
		s.handleAgentPing,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"agent_ready",
			mcp.WithDescription("Mark the agent ready for the next round"),
			mcp.WithNumber("agent_id", mcp.Required(), mcp.Description("Agent id")),
		),
		s.handleAgentReady,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"submit_reservation",
			mcp.WithDescription("Book an itinerary for a customer. Legs must chain from one customer endpoint to the other."),
			mcp.WithNumber("agent_id", mcp.Required(), mcp.Description("Agent id")),
			mcp.WithNumber("customer_id", mcp.Required(), mcp.Description("Customer id")),
			mcp.WithArray("legs", mcp.Required(),
				mcp.Description("Offers to book, each {pair, provider_id, cost} exactly as listed by list_routes"),
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"pair":        map[string]any{"type": "string"},
						"provider_id": map[string]any{"type": "number"},
						"cost":        map[string]any{"type": "number"},
					},
					"required": []string{"pair", "provider_id", "cost"},
				}),
			),
		),
		s.handleSubmitReservation,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_reservation",
			mcp.WithDescription("Get a reservation and its current status"),
			mcp.WithString("reservation_id", mcp.Required(), mcp.Description("Reservation id")),
		),
		s.handleGetReservation,
	)
}

func (s *Server) handleRegisterAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	a, err := s.coord.RegisterAgent(ctx, name)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"id": a.ID, "name": a.Name}), nil
}

func (s *Server) handleAgentPing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID, err := request.RequireInt("agent_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	seq := clampSeq(request.GetInt("seq", 0))
	resp, err := s.coord.PingAgent(ctx, int64(agentID), seq)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleAgentReady(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID, err := request.RequireInt("agent_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	a, err := s.coord.SetReady(ctx, int64(agentID))
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(a), nil
}

func (s *Server) handleSubmitReservation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID, err := request.RequireInt("agent_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	customerID, err := request.RequireInt("customer_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	legs, err := legsArgument(request.GetArguments())
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	res, err := s.coord.SubmitReservation(ctx, int64(agentID), customerID, legs)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleGetReservation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("reservation_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	res, err := s.coord.Reservation(ctx, id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}
