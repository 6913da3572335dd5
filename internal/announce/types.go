// Package announce pushes selected coordinator events, round results by
// default, to chat webhooks.
package announce

import (
	"time"

	"reservation-coordinator/internal/stream"
)

type Target struct {
	Platform       string   `json:"platform"`
	Endpoint       string   `json:"endpoint"`
	Secret         string   `json:"secret"`
	EventAllowlist []string `json:"event_allowlist"`
	Enabled        bool     `json:"enabled"`
}

func (t Target) allows(event string) bool {
	if len(t.EventAllowlist) == 0 {
		return event == defaultEvent
	}
	for _, e := range t.EventAllowlist {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}

const defaultEvent = "winner"

type Config struct {
	Targets             []Target
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

type MessageField struct {
	Name   string
	Value  string
	Inline bool
}

type FormattedMessage struct {
	Title       string
	Content     string
	Description string
	Color       int
	Timestamp   string
	Footer      string
	Fields      []MessageField
}

type pushJob struct {
	Target    Target
	Event     stream.Event
	Formatted FormattedMessage
	Attempt   int
}

func (j pushJob) key() string {
	return targetKey(j.Target)
}

func targetKey(t Target) string {
	return t.Platform + "|" + t.Endpoint
}
