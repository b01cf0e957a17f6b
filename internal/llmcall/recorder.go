package llmcall

import (
	"sync"

	"github.com/jackzampolin/hidef/internal/providers"
)

// DefaultCapacity is the number of calls kept when none is configured.
const DefaultCapacity = 1000

// Recorder keeps the most recent LLM calls in memory.
// Older calls are dropped once capacity is reached.
type Recorder struct {
	mu       sync.RWMutex
	calls    []Call
	next     int
	full     bool
	capacity int
}

// NewRecorder creates a new LLM call recorder holding up to capacity calls.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		calls:    make([]Call, capacity),
		capacity: capacity,
	}
}

// Record captures an LLM call. Safe to call on a nil Recorder.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) *Call {
	if r == nil {
		return nil
	}
	call := FromChatResult(result, opts)
	r.RecordCall(call)
	return call
}

// RecordCall captures an already-constructed Call.
func (r *Recorder) RecordCall(call *Call) {
	if r == nil || call == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[r.next] = *call
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
}

// Len returns the number of calls currently held.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return r.capacity
	}
	return r.next
}

// snapshot returns held calls, newest first.
func (r *Recorder) snapshot() []Call {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.next
	if r.full {
		n = r.capacity
	}
	out := make([]Call, 0, n)
	for i := 0; i < n; i++ {
		idx := (r.next - 1 - i + r.capacity) % r.capacity
		out = append(out, r.calls[idx])
	}
	return out
}
