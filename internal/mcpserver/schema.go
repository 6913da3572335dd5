package mcpserver

import (
	"encoding/json"
	"fmt"

	"reservation-coordinator/internal/game"
)

// legsArgument decodes the legs array of submit_reservation. Costs may be
// sent as numbers or decimal strings.
func legsArgument(args map[string]any) ([]game.Leg, error) {
	raw, ok := args["legs"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("legs is required")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var legs []game.Leg
	if err := json.Unmarshal(b, &legs); err != nil {
		return nil, fmt.Errorf("legs: %w", err)
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("legs must not be empty")
	}
	return legs, nil
}

func clampSeq(seq int) int64 {
	if seq < 0 {
		return 0
	}
	return int64(seq)
}
