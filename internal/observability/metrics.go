package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-memory request and error counters, keyed by
// path|method|status (requests) and path|method|code (errors).
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments the counter for a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments the counter for a failed request.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot returns copies of the current counters for exposure on the
// metrics endpoint.
func (m *Metrics) Snapshot() (requests, errors map[string]int64) {
	requests = make(map[string]int64)
	errors = make(map[string]int64)
	if m == nil {
		return requests, errors
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		requests[k] = v
	}
	for k, v := range m.errorCount {
		errors[k] = v
	}
	return requests, errors
}
