package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func TestDiscordAdapterPayload(t *testing.T) {
	var got map[string]any
	client := newTestHTTPClient(func(r *http.Request) (*http.Response, error) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return &http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(bytes.NewReader(nil)), Header: make(http.Header)}, nil
	})

	adapter := NewDiscordAdapter(client)
	err := adapter.Send(context.Background(), "https://discord.example/webhook", "", Message{
		Title:       "Round 01J finished",
		Content:     "agent #2 wins",
		Description: "agent #2 wins",
		Color:       12345,
		Timestamp:   "2025-01-01T00:00:00Z",
		Footer:      "footer-text",
		Fields: []Field{
			{Name: "Reason", Value: "timeout", Inline: true},
			{Name: "Commissions", Value: "#2 12.50", Inline: false},
		},
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if got["content"] != "agent #2 wins" {
		t.Fatalf("unexpected content: %v", got["content"])
	}
	embeds, ok := got["embeds"].([]any)
	if !ok || len(embeds) != 1 {
		t.Fatalf("unexpected embeds: %#v", got["embeds"])
	}
	embed, ok := embeds[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected embed type: %#v", embeds[0])
	}
	if embed["color"] != float64(12345) {
		t.Fatalf("unexpected color: %v", embed["color"])
	}
	footer, ok := embed["footer"].(map[string]any)
	if !ok || footer["text"] != "footer-text" {
		t.Fatalf("unexpected footer: %#v", embed["footer"])
	}
	fields, ok := embed["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("unexpected fields: %#v", embed["fields"])
	}
	second, ok := fields[1].(map[string]any)
	if !ok || second["inline"] != false {
		t.Fatalf("expected second field inline=false, got %#v", fields[1])
	}
}

func TestDiscordAdapterStatusError(t *testing.T) {
	client := newTestHTTPClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(bytes.NewReader(nil)), Header: make(http.Header)}, nil
	})
	err := NewDiscordAdapter(client).Send(context.Background(), "https://discord.example/webhook", "", Message{Title: "t"})
	if err == nil {
		t.Fatal("expected error on 429")
	}
}
