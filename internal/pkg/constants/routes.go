package constants

// Static route constants
const (
	APIRoute     = "/api"
	APIV1Route   = "/api/v1"
	HealthRoute  = "/healthz"
	MetricsRoute = "/metrics"
)
