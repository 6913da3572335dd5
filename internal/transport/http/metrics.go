package httptransport

import "expvar"

var (
	metricAgentPingTotal    = expvar.NewInt("rc_http_agent_ping_total")
	metricProviderPingTotal = expvar.NewInt("rc_http_provider_ping_total")
	metricHTTPErrorsTotal   = expvar.NewMap("rc_http_errors_total")

	metricSSEConnectionsTotal  = expvar.NewInt("rc_sse_connections_total")
	metricSSEConnectionsActive = expvar.NewInt("rc_sse_connections_active")

	metricRoundQueryTotal  = expvar.NewInt("rc_round_query_total")
	metricRoundQueryErrors = expvar.NewInt("rc_round_query_errors_total")
)
