package httptransport

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/stream"
)

var ssePingInterval = 15 * time.Second

// EventsSSEHandler replays buffered events after Last-Event-ID and then
// streams live ones until the client goes away.
func EventsSSEHandler(buf *stream.Buffer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported")
			return
		}

		metricSSEConnectionsTotal.Add(1)
		metricSSEConnectionsActive.Add(1)
		defer metricSSEConnectionsActive.Add(-1)

		stream.SetSSEHeaders(w)
		reqID := chimw.GetReqID(r.Context())
		log.Info().Str("request_id", reqID).Msg("sse stream opened")

		// subscribe before replaying so nothing slips between the two
		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)

		lastID := r.Header.Get("Last-Event-ID")
		if lastID == "" {
			lastID = r.URL.Query().Get("last_event_id")
		}
		sent := map[string]struct{}{}
		for _, ev := range buf.ReplayAfter(lastID) {
			if err := stream.WriteSSE(w, ev); err != nil {
				return
			}
			sent[ev.EventID] = struct{}{}
		}
		flusher.Flush()

		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				log.Info().Str("request_id", reqID).Err(r.Context().Err()).Msg("sse stream closed")
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if _, dup := sent[ev.EventID]; dup {
					delete(sent, ev.EventID)
					continue
				}
				if err := stream.WriteSSE(w, ev); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				now := time.Now().UnixMilli()
				ping := stream.Event{Event: "ping", ServerTS: now, Data: map[string]any{"ts": now}}
				if err := stream.WriteSSE(w, ping); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
