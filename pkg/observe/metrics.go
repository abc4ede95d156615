package observe

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters.
type Metrics struct {
	Analyses          atomic.Int64
	InvalidInputs     atomic.Int64
	DocumentErrors    atomic.Int64
	InternalErrors    atomic.Int64
	FallbackUses      atomic.Int64
	HTTPRequests      atomic.Int64
	RateLimited       atomic.Int64
	WorkerMessages    atomic.Int64
	WorkerDownloadErr atomic.Int64
}

//nolint:gochecknoglobals // Stable output order
var metricNames = []string{
	"analyses",
	"invalid_inputs",
	"document_errors",
	"internal_errors",
	"fallback_uses",
	"http_requests",
	"rate_limited",
	"worker_messages",
	"worker_download_errors",
}

// NewMetrics returns zeroed counters.
func NewMetrics() (m *Metrics) {
	m = &Metrics{}
	return m
}

// Snapshot returns the current value of every counter.
func (m *Metrics) Snapshot() (snapshot map[string]int64) {
	snapshot = map[string]int64{
		"analyses":               m.Analyses.Load(),
		"invalid_inputs":         m.InvalidInputs.Load(),
		"document_errors":        m.DocumentErrors.Load(),
		"internal_errors":        m.InternalErrors.Load(),
		"fallback_uses":          m.FallbackUses.Load(),
		"http_requests":          m.HTTPRequests.Load(),
		"rate_limited":           m.RateLimited.Load(),
		"worker_messages":        m.WorkerMessages.Load(),
		"worker_download_errors": m.WorkerDownloadErr.Load(),
	}
	return snapshot
}

// Format returns the counters as "name value" lines for the metrics endpoint.
func (m *Metrics) Format() (text string) {
	snapshot := m.Snapshot()

	var sb strings.Builder
	for _, name := range metricNames {
		fmt.Fprintf(&sb, "%s %d\n", name, snapshot[name])
	}

	text = sb.String()
	return text
}
