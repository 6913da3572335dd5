package announce

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/announce/platforms"
	"reservation-coordinator/internal/stream"
)

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

// Manager follows the event feed and delivers formatted messages to every
// target whose allowlist matches, with per-target retries and a circuit
// breaker.
type Manager struct {
	cfg      Config
	adapters map[string]platforms.Adapter

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}

	mu           sync.Mutex
	started      bool
	breakerByKey map[string]breakerState
}

func NewManager(cfg Config) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	adapters := map[string]platforms.Adapter{
		"discord": platforms.NewDiscordAdapter(client),
		"feishu":  platforms.NewFeishuAdapter(client),
	}
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}
	m := &Manager{
		cfg:          cfg,
		adapters:     adapters,
		dispatchCh:   make(chan pushJob, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		breakerByKey: map[string]breakerState{},
	}
	m.retryQ = newRetryQueue(m.dispatchCh, m.done)
	return m
}

// Start subscribes to buf and runs the workers until ctx ends or buf closes.
// It is a no-op without targets or when already started.
func (m *Manager) Start(ctx context.Context, buf *stream.Buffer) {
	if len(m.cfg.Targets) == 0 || buf == nil {
		return
	}
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
	ch := buf.Subscribe()
	go func() {
		defer close(m.done)
		defer buf.Unsubscribe(ch)
		m.consume(ctx, ch)
	}()
	log.Info().Int("targets", len(m.cfg.Targets)).Int("workers", m.cfg.Workers).Msg("announce started")
}

// Done is closed once the manager stops following the feed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) consume(ctx context.Context, ch <-chan stream.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			m.handleEvent(ev)
		}
	}
}

func (m *Manager) handleEvent(ev stream.Event) {
	if ev.Event == "" {
		return
	}
	var formatted *FormattedMessage
	for _, target := range m.cfg.Targets {
		if !target.allows(ev.Event) {
			continue
		}
		if formatted == nil {
			msg, ok := FormatMessage(ev)
			if !ok {
				return
			}
			formatted = &msg
		}
		if !m.enqueue(pushJob{Target: target, Event: ev, Formatted: *formatted}) {
			metricDroppedTotal.Add(1)
		}
	}
}

func (m *Manager) enqueue(job pushJob) bool {
	select {
	case <-m.done:
		return false
	case m.dispatchCh <- job:
		metricQueuedTotal.Add(1)
		metricQueueLen.Set(int64(len(m.dispatchCh)))
		return true
	default:
		return false
	}
}
