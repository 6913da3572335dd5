package announce

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/stream"
)

func TestFormatWinner(t *testing.T) {
	result := game.RoundResult{
		ID:          "01JROUNDABCDEFG",
		Reason:      game.EndTimeout,
		Commissions: map[int64]decimal.Decimal{1: decimal.RequireFromString("3.5"), 2: decimal.RequireFromString("12.25")},
		Winners:     []int64{2},
		Commits:     4,
	}
	msg, ok := FormatMessage(stream.Event{
		Event:    game.KindWinner,
		ServerTS: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		Data:     map[string]any{"text": "agent #2 wins", "data": result},
	})
	if !ok {
		t.Fatal("winner should format")
	}
	if msg.Title != "Round 01JROUNDAB finished" {
		t.Fatalf("unexpected title: %q", msg.Title)
	}
	if msg.Timestamp != "2025-01-01T00:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", msg.Timestamp)
	}
	values := map[string]string{}
	for _, f := range msg.Fields {
		values[f.Name] = f.Value
	}
	if values["Reason"] != "timeout" || values["Commits"] != "4" || values["Winners"] != "#2" {
		t.Fatalf("unexpected fields: %#v", values)
	}
	if !strings.HasPrefix(values["Commissions"], "#2 12.25\n#1 3.50") {
		t.Fatalf("unexpected commission board: %q", values["Commissions"])
	}
}

func TestFormatReservationOnlyWhenSettled(t *testing.T) {
	res := game.Reservation{
		ID:         "res-1",
		AgentID:    3,
		CustomerID: 1,
		Legs:       []game.Leg{{Pair: "A-B", Cost: decimal.NewFromInt(100)}},
		Status:     game.StatusTrying,
		TotalCost:  decimal.NewFromInt(100),
	}
	if _, ok := FormatMessage(stream.Event{Event: game.KindReservation, Data: res}); ok {
		t.Fatal("trying reservation should not format")
	}
	res.Status = game.StatusCancelled
	res.FailedLeg = "A-B"
	res.FailReason = "refused"
	msg, ok := FormatMessage(stream.Event{Event: game.KindReservation, Data: res})
	if !ok {
		t.Fatal("cancelled reservation should format")
	}
	if msg.Color != colorCancel {
		t.Fatalf("unexpected color: %x", msg.Color)
	}
	if msg.Fields[len(msg.Fields)-1].Value != "A-B: refused" {
		t.Fatalf("unexpected failure field: %#v", msg.Fields)
	}
}

func TestFormatIgnoresUnknownEvents(t *testing.T) {
	if _, ok := FormatMessage(stream.Event{Event: "game_state", Data: map[string]any{"state": "Running"}}); ok {
		t.Fatal("game_state should not format")
	}
	if _, ok := FormatMessage(stream.Event{Event: game.KindState, Data: nil}); ok {
		t.Fatal("state without payload should not format")
	}
}
