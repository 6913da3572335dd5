package coordinator

import "expvar"

var (
	metricTicksTotal       = expvar.NewInt("rc_ticks_total")
	metricStateTransitions = expvar.NewMap("rc_state_transitions_total")
	metricRoundsTotal      = expvar.NewMap("rc_rounds_total")

	metricReservationSubmitTotal  = expvar.NewInt("rc_reservation_submit_total")
	metricReservationSubmitErrors = expvar.NewInt("rc_reservation_submit_errors_total")
	metricReservationCommitted    = expvar.NewInt("rc_reservation_committed_total")
	metricReservationCancelled    = expvar.NewInt("rc_reservation_cancelled_total")

	metricProviderRPCTotal  = expvar.NewMap("rc_provider_rpc_total")
	metricProviderRPCErrors = expvar.NewMap("rc_provider_rpc_errors_total")
)
