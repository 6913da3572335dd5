package announce

import "expvar"

var (
	metricQueuedTotal       = expvar.NewInt("rc_announce_queued_total")
	metricDroppedTotal      = expvar.NewInt("rc_announce_dropped_total")
	metricRetryTotal        = expvar.NewInt("rc_announce_retry_total")
	metricRetryDroppedTotal = expvar.NewInt("rc_announce_retry_dropped_total")
	metricSentTotal         = expvar.NewInt("rc_announce_sent_total")
	metricFailedTotal       = expvar.NewInt("rc_announce_failed_total")
	metricCircuitOpenTotal  = expvar.NewInt("rc_announce_circuit_open_total")
	metricQueueLen          = expvar.NewInt("rc_announce_queue_len")
)
