package circuitbreaker

import "time"

// Stats is a point-in-time snapshot of a breaker's counters and state.
// Counters are cumulative since creation or the last Reset.
type Stats struct {
	State           State         `json:"state"`
	Failures        int           `json:"failures"`
	Successes       int           `json:"successes"`
	TotalRequests   int64         `json:"total_requests"`
	LastFailureTime time.Time     `json:"last_failure_time"`
	LastSuccessTime time.Time     `json:"last_success_time"`
	Uptime          time.Duration `json:"uptime"`
	FailureRate     float64       `json:"failure_rate"`
}
