package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/amonks/tasklab/internal/ids"
	"go.uber.org/zap"
)

// maxIDAttempts bounds how often Create redraws an ID that is already taken.
const maxIDAttempts = 8

// IDGenerator produces short unique tokens for new tasks.
type IDGenerator interface {
	NewID() (string, error)
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() (string, error)

// NewID implements IDGenerator.
func (fn IDGeneratorFunc) NewID() (string, error) {
	return fn()
}

// Invalidator is notified after every accepted mutation that cached views of
// scope may be stale. Delivery is best-effort: errors are logged and dropped.
type Invalidator interface {
	Invalidate(scope string) error
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(scope string) error

// Invalidate implements Invalidator.
func (fn InvalidatorFunc) Invalidate(scope string) error {
	return fn(scope)
}

// Options configures a Store.
type Options struct {
	// IDs generates task IDs. Defaults to random base-36 tokens.
	IDs IDGenerator

	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time

	// Invalidator receives a signal after each accepted mutation. Optional.
	Invalidator Invalidator

	// Logger receives operational logs. Defaults to a no-op logger.
	Logger *zap.Logger

	// LooseUpdates skips re-validating the merged record on Update.
	LooseUpdates bool
}

// Store holds the authoritative, ordered set of task records.
// All methods are safe for concurrent use; mutations are serialized.
type Store struct {
	mu    sync.Mutex
	tasks []Task

	ids          IDGenerator
	now          func() time.Time
	invalidator  Invalidator
	logger       *zap.Logger
	looseUpdates bool
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	if opts.IDs == nil {
		opts.IDs = ids.Generator{Length: ids.DefaultLength}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		ids:          opts.IDs,
		now:          opts.Now,
		invalidator:  opts.Invalidator,
		logger:       opts.Logger,
		looseUpdates: opts.LooseUpdates,
	}
}

// Close discards every record. The store stays usable and empty afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
	return nil
}

func (s *Store) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// timestamp returns the current instant in UTC without a monotonic reading.
func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) indexOfLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// newIDLocked draws IDs until one is unused. Callers must hold s.mu.
func (s *Store) newIDLocked() (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.ids.NewID()
		if err != nil {
			lastErr = err
			continue
		}
		if id == "" {
			lastErr = fmt.Errorf("generator returned an empty id")
			continue
		}
		if s.indexOfLocked(id) >= 0 {
			s.logger.Debug("task id collision", zap.String("id", id), zap.Int("attempt", attempt+1))
			continue
		}
		return id, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrIDGeneration, lastErr)
	}
	return "", ErrIDGeneration
}

// invalidate signals the list view after a mutation. It never fails the caller.
func (s *Store) invalidate(op, id string) {
	if s.invalidator == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Warn("task view invalidation panicked",
				zap.String("op", op),
				zap.String("id", id),
				zap.Any("panic", recovered))
		}
	}()
	if err := s.invalidator.Invalidate(ListScope); err != nil {
		s.logger.Warn("task view invalidation failed",
			zap.String("op", op),
			zap.String("id", id),
			zap.Error(err))
	}
}

func notFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}
