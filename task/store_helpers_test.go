package task

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// sequenceIDs returns id-1, id-2, ... in order.
type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

// stepClock advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Date(2024, 3, 2, 9, 12, 0, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.now
	c.now = c.now.Add(c.step)
	return current
}

type recordingInvalidator struct {
	mu     sync.Mutex
	scopes []string
	err    error
}

func (r *recordingInvalidator) Invalidate(scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, scope)
	return r.err
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	return NewStore(Options{
		IDs: &sequenceIDs{},
		Now: newStepClock(time.Second).Now,
	})
}

func mustCreate(t *testing.T, store *Store, in Input) Task {
	t.Helper()

	created, err := store.Create(in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Title, err)
	}
	return created
}
