package proxy

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Invocation is a single call observed by a Recorder
type Invocation struct {
	ID      uuid.UUID
	Method  *Method
	Args    []any
	Results []any
	At      time.Time
}

// Recorder is an InvocationHandler that records every call before delegating to the
// next handler. Without a next handler it returns zero results.
type Recorder struct {
	mu          sync.Mutex
	next        InvocationHandler
	invocations []Invocation
}

// NewRecorder creates a recorder delegating to next, which may be nil
func NewRecorder(next InvocationHandler) *Recorder {
	return &Recorder{next: next}
}

// Invoke records the call and forwards it
func (r *Recorder) Invoke(method *Method, args []any) []any {
	inv := Invocation{
		ID:     uuid.New(),
		Method: method,
		Args:   append([]any(nil), args...),
		At:     time.Now(),
	}

	var results []any
	if r.next != nil {
		results = r.next.Invoke(method, args)
	}
	inv.Results = results

	r.mu.Lock()
	r.invocations = append(r.invocations, inv)
	r.mu.Unlock()

	return results
}

// Invocations returns a copy of the recorded calls in order
func (r *Recorder) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invocation(nil), r.invocations...)
}

// Count returns how many calls were made to the named method, or all calls if name is empty
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return len(r.invocations)
	}
	n := 0
	for _, inv := range r.invocations {
		if inv.Method != nil && inv.Method.Name == name {
			n++
		}
	}
	return n
}

// Reset discards recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.invocations = nil
	r.mu.Unlock()
}
