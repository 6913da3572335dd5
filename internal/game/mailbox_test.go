package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestMailboxAcknowledgedRead(t *testing.T) {
	m := NewMailboxes(10)
	m.Ensure(1)
	m.Broadcast(Message{Text: "one"})

	assert.Equal(t, []string{"one"}, texts(m.Poll(1, 1)))
	// retry with the same seq repeats the unacknowledged batch
	assert.Equal(t, []string{"one"}, texts(m.Poll(1, 1)))

	m.Send(1, Message{Text: "two"})
	assert.Equal(t, []string{"two"}, texts(m.Poll(1, 2)))
	assert.Empty(t, m.Poll(1, 3))
}

func TestMailboxResyncDoesNotDrop(t *testing.T) {
	m := NewMailboxes(10)
	m.Ensure(1)
	m.Send(1, Message{Text: "a"})
	assert.Equal(t, []string{"a"}, texts(m.Poll(1, 1)))
	assert.Equal(t, []string{"a"}, texts(m.Poll(1, 7)))
	assert.Equal(t, []string{}, texts(m.Poll(1, 8)))
}

func TestMailboxBounded(t *testing.T) {
	m := NewMailboxes(2)
	m.Ensure(1)
	for _, s := range []string{"a", "b", "c"} {
		m.Send(1, Message{Text: s})
	}
	assert.Equal(t, 2, m.Pending(1))
	assert.Equal(t, []string{"b", "c"}, texts(m.Poll(1, 1)))
	assert.False(t, m.Send(9, Message{Text: "x"}))
}
