package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"reservation-coordinator/internal/coordinator"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

var domainErrors = []error{
	coordinator.ErrAgentNotFound,
	coordinator.ErrProviderNotFound,
	coordinator.ErrCustomerNotFound,
	coordinator.ErrReservationNotFound,
	coordinator.ErrGameNotRunning,
	coordinator.ErrAgentNotPlaying,
	coordinator.ErrInvalidRequest,
	coordinator.ErrInvalidItinerary,
	coordinator.ErrLegUnavailable,
}

func mapDomainError(err error) *mcp.CallToolResult {
	if err == nil {
		return toolError("internal_error", "unknown error")
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return toolError(target.Error(), err.Error())
		}
	}
	if errors.Is(err, coordinator.ErrStopped) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return toolError("unavailable", err.Error())
	}
	return toolError("internal_error", err.Error())
}
