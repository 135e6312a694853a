package circuit

import (
	"sync"
	"time"
)

// State is the breaker position.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Config holds the breaker thresholds.
type Config struct {
	FailureThreshold int
	Timeout          time.Duration
}

// DefaultConfig matches the defaults the orchestration layer ships with.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		Timeout:          60 * time.Second,
	}
}

// Breaker is a process wide failure gate. Construct one per process and pass
// it by reference to every caller that shares the dependency: a trip caused
// by one caller protects all callers until the breaker resets.
//
// Callers must check IsOpen before issuing a call and call exactly one of
// RecordSuccess or RecordFailure after each attempt, including attempts made
// while half-open.
type Breaker struct {
	config      Config
	state       State
	failures    int
	lastFailure time.Time
	mu          sync.Mutex
}

// New creates a closed Breaker.
func New(config Config) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Breaker{config: config, state: StateClosed}
}

// IsOpen reports whether calls must be rejected. Once the open timeout has
// elapsed the breaker moves to half-open and permits a trial call.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateOpen {
		return false
	}
	if time.Since(b.lastFailure) > b.config.Timeout {
		b.state = StateHalfOpen
		return false
	}
	return true
}

// RecordSuccess closes the breaker and clears the failure count.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.state = StateClosed
}

// RecordFailure counts a failure; at the threshold the breaker opens.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = time.Now()
	if b.failures >= b.config.FailureThreshold {
		b.state = StateOpen
	}
}

// Reset returns the breaker to its initial closed state. This is the single
// administrative reset API; normal recovery goes through the half-open probe.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.lastFailure = time.Time{}
}

// Stats is a point in time snapshot of the breaker.
type Stats struct {
	State       State     `json:"state"`
	Failures    int       `json:"failureCount"`
	LastFailure time.Time `json:"lastFailureTime,omitzero"`
}

// Stats returns the current snapshot.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{State: b.state, Failures: b.failures, LastFailure: b.lastFailure}
}
