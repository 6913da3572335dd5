package game

import "time"

// Message kinds carried by the mailbox.
const (
	KindBroadcast   = "broadcast"
	KindChat        = "chat"
	KindReservation = "reservation"
	KindWinner      = "winner"
	KindState       = "state"
)

type Message struct {
	Kind string    `json:"kind"`
	From string    `json:"from,omitempty"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

type inbox struct {
	queue     []Message
	delivered int
	lastSeq   int64
}

// Mailboxes holds one bounded queue per agent. Reads are acknowledged: a
// poll with seq == last+1 drops what the previous poll returned, seq == last
// repeats it, and anything else only re-synchronises the sequence.
type Mailboxes struct {
	byAgent map[int64]*inbox
	max     int
}

func NewMailboxes(max int) *Mailboxes {
	if max <= 0 {
		max = 500
	}
	return &Mailboxes{byAgent: map[int64]*inbox{}, max: max}
}

func (m *Mailboxes) Ensure(agentID int64) {
	if _, ok := m.byAgent[agentID]; !ok {
		m.byAgent[agentID] = &inbox{}
	}
}

func (m *Mailboxes) Remove(agentID int64) {
	delete(m.byAgent, agentID)
}

func (m *Mailboxes) Clear() {
	m.byAgent = map[int64]*inbox{}
}

// Send appends msg to one agent's queue. Unknown agents are ignored.
func (m *Mailboxes) Send(agentID int64, msg Message) bool {
	box, ok := m.byAgent[agentID]
	if !ok {
		return false
	}
	m.push(box, msg)
	return true
}

// Broadcast appends msg to every queue.
func (m *Mailboxes) Broadcast(msg Message) {
	for _, box := range m.byAgent {
		m.push(box, msg)
	}
}

func (m *Mailboxes) push(box *inbox, msg Message) {
	box.queue = append(box.queue, msg)
	if over := len(box.queue) - m.max; over > 0 {
		box.queue = append([]Message(nil), box.queue[over:]...)
		box.delivered -= over
		if box.delivered < 0 {
			box.delivered = 0
		}
	}
}

// Poll returns the agent's pending messages for heartbeat seq.
func (m *Mailboxes) Poll(agentID int64, seq int64) []Message {
	box, ok := m.byAgent[agentID]
	if !ok {
		return nil
	}
	switch seq {
	case box.lastSeq + 1:
		box.queue = append([]Message(nil), box.queue[box.delivered:]...)
	case box.lastSeq:
	default:
		box.delivered = 0
	}
	box.lastSeq = seq
	box.delivered = len(box.queue)
	return append([]Message(nil), box.queue...)
}

// Pending reports the queue length for an agent.
func (m *Mailboxes) Pending(agentID int64) int {
	if box, ok := m.byAgent[agentID]; ok {
		return len(box.queue)
	}
	return 0
}
