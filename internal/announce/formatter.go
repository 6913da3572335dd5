package announce

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/stream"
)

const (
	colorWinner   = 0xF1C40F
	colorState    = 0x5865F2
	colorCommit   = 0x57F287
	colorCancel   = 0xED4245
	colorChat     = 0x3BA55D
	shortIDLimit  = 10
	defaultFooter = "reservation-coordinator"
)

type broadcastPayload struct {
	Text string          `json:"text"`
	Data json.RawMessage `json:"data"`
}

// FormatMessage renders ev for a webhook. Events without a rendering, and
// reservations that have not settled, report false.
func FormatMessage(ev stream.Event) (FormattedMessage, bool) {
	base := FormattedMessage{
		Timestamp: eventTimestamp(ev.ServerTS),
		Footer:    defaultFooter,
	}
	switch ev.Event {
	case game.KindWinner:
		var p broadcastPayload
		if !decodeData(ev.Data, &p) {
			return FormattedMessage{}, false
		}
		var result game.RoundResult
		if len(p.Data) > 0 && json.Unmarshal(p.Data, &result) != nil {
			return FormattedMessage{}, false
		}
		roundID := fallback(result.ID, ev.RoundID)
		base.Title = fmt.Sprintf("Round %s finished", shortID(fallback(roundID, "unknown"), shortIDLimit))
		base.Content = p.Text
		base.Description = p.Text
		base.Color = colorWinner
		base.Fields = append(base.Fields,
			MessageField{Name: "Reason", Value: fallback(string(result.Reason), "-"), Inline: true},
			MessageField{Name: "Commits", Value: strconv.Itoa(result.Commits), Inline: true},
			MessageField{Name: "Winners", Value: winnersText(result.Winners), Inline: true},
		)
		if board := commissionBoard(result); board != "" {
			base.Fields = append(base.Fields, MessageField{Name: "Commissions", Value: board})
		}
	case game.KindState:
		var p broadcastPayload
		if !decodeData(ev.Data, &p) || p.Text == "" {
			return FormattedMessage{}, false
		}
		base.Title = "Game update"
		base.Content = p.Text
		base.Description = p.Text
		base.Color = colorState
	case game.KindChat:
		var p struct {
			AgentID int64  `json:"agent_id"`
			From    string `json:"from"`
			Text    string `json:"text"`
		}
		if !decodeData(ev.Data, &p) || p.Text == "" {
			return FormattedMessage{}, false
		}
		base.Title = fmt.Sprintf("Chat from %s", fallback(p.From, "agent "+strconv.FormatInt(p.AgentID, 10)))
		base.Content = p.Text
		base.Description = p.Text
		base.Color = colorChat
	case game.KindReservation:
		var res game.Reservation
		if !decodeData(ev.Data, &res) || !res.Status.Terminal() {
			return FormattedMessage{}, false
		}
		base.Title = fmt.Sprintf("Reservation %s %s", shortID(res.ID, shortIDLimit), strings.ToLower(string(res.Status)))
		base.Content = fmt.Sprintf("agent %d customer %d", res.AgentID, res.CustomerID)
		base.Description = base.Content
		base.Color = colorCommit
		base.Fields = append(base.Fields,
			MessageField{Name: "Legs", Value: legsText(res.Legs), Inline: true},
			MessageField{Name: "Cost", Value: res.TotalCost.StringFixed(2), Inline: true},
		)
		if res.Status == game.StatusCancelled {
			base.Color = colorCancel
			if res.FailReason != "" {
				base.Fields = append(base.Fields, MessageField{Name: "Failure", Value: fallback(res.FailedLeg, "-") + ": " + res.FailReason})
			}
		}
	default:
		return FormattedMessage{}, false
	}
	return base, true
}

// decodeData round-trips in-process payloads so typed structs and replayed
// JSON maps decode the same way.
func decodeData(data any, out any) bool {
	if data == nil {
		return false
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func winnersText(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, "#"+strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}

func commissionBoard(result game.RoundResult) string {
	if len(result.Commissions) == 0 {
		return ""
	}
	ids := make([]int64, 0, len(result.Commissions))
	for id := range result.Commissions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := result.Commissions[ids[i]], result.Commissions[ids[j]]
		if !ci.Equal(cj) {
			return ci.GreaterThan(cj)
		}
		return ids[i] < ids[j]
	})
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("#%d %s", id, result.Commissions[id].StringFixed(2)))
	}
	return strings.Join(lines, "\n")
}

func legsText(legs []game.Leg) string {
	if len(legs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(legs))
	for _, l := range legs {
		parts = append(parts, l.Pair)
	}
	return strings.Join(parts, " ")
}

func eventTimestamp(ts int64) string {
	if ts <= 0 {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return time.UnixMilli(ts).UTC().Format(time.RFC3339)
}

func shortID(v string, limit int) string {
	if len(v) <= limit {
		return v
	}
	return v[:limit]
}

func fallback(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
