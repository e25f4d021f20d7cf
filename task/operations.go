package task

import (
	"fmt"
	"slices"
	"strings"

	internalstrings "github.com/amonks/tasklab/internal/strings"
	"go.uber.org/zap"
)

// Create validates in and admits a new task.
// On failure it returns a *ValidationError and leaves the store untouched.
func (s *Store) Create(in Input) (Task, error) {
	task, err := buildTask(in)
	if err != nil {
		return Task{}, err
	}

	var created Task
	err = s.withLock(func() error {
		id, err := s.newIDLocked()
		if err != nil {
			return err
		}
		now := s.timestamp()
		task.ID = id
		task.CreatedAt = now
		task.UpdatedAt = now
		s.tasks = append(s.tasks, task)
		created = task.clone()
		return nil
	})
	if err != nil {
		return Task{}, err
	}

	s.logger.Info("task created", zap.String("id", created.ID), zap.String("title", created.Title))
	s.invalidate("create", created.ID)
	return created, nil
}

// List returns every task in insertion order.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		result = append(result, task.clone())
	}
	return result
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return Task{}, notFoundError(id)
	}
	return s.tasks[i].clone(), nil
}

// Update merges patch over the task with the given ID and refreshes UpdatedAt.
//
// The merged record must satisfy the same contract as Create unless the store
// was opened with LooseUpdates. A missing ID returns an error wrapping
// ErrTaskNotFound; a rejected merge returns a *ValidationError. Neither
// changes the store.
func (s *Store) Update(id string, patch Patch) (Task, error) {
	var updated Task
	err := s.withLock(func() error {
		i := s.indexOfLocked(id)
		if i < 0 {
			return notFoundError(id)
		}
		current := s.tasks[i]

		next, err := s.merge(current, patch)
		if err != nil {
			return err
		}

		now := s.timestamp()
		if now.Before(current.UpdatedAt) {
			now = current.UpdatedAt
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now

		s.tasks[i] = next
		updated = next.clone()
		return nil
	})
	if err != nil {
		return Task{}, err
	}

	s.logger.Info("task updated", zap.String("id", updated.ID))
	s.invalidate("update", updated.ID)
	return updated, nil
}

func (s *Store) merge(current Task, patch Patch) (Task, error) {
	if s.looseUpdates {
		return mergeLoose(current, patch), nil
	}
	return buildTask(patch.apply(inputFromTask(current)))
}

// mergeLoose copies patch fields over current without validation.
func mergeLoose(current Task, patch Patch) Task {
	next := current.clone()
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Priority != nil {
		next.Priority = Priority(*patch.Priority)
	}
	if patch.Status != nil {
		next.Status = Status(*patch.Status)
	}
	if patch.DueDate != nil {
		next.DueDate = *patch.DueDate
	}
	if patch.Tags != nil {
		next.Tags = slices.Clone(*patch.Tags)
	}
	return next
}

// Delete removes the task with the given ID.
func (s *Store) Delete(id string) error {
	err := s.withLock(func() error {
		i := s.indexOfLocked(id)
		if i < 0 {
			return notFoundError(id)
		}
		s.tasks = slices.Delete(s.tasks, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted", zap.String("id", id))
	s.invalidate("delete", id)
	return nil
}

// Resolve returns the full task ID for a unique ID prefix.
func (s *Store) Resolve(prefix string) (string, error) {
	s.mu.Lock()
	index := NewIDIndex(s.tasks)
	s.mu.Unlock()
	return index.Resolve(prefix)
}

// Filter configures which tasks Find returns. Zero values match everything.
type Filter struct {
	// Status filters by exact status match.
	Status *Status `json:"status,omitempty"`

	// Priority filters by exact priority match.
	Priority *Priority `json:"priority,omitempty"`

	// Tag keeps tasks carrying this tag (case-insensitive).
	Tag string `json:"tag,omitempty"`

	// Query keeps tasks whose title or description contains it (case-insensitive).
	Query string `json:"query,omitempty"`
}

// Find returns tasks matching filter, in insertion order.
func (s *Store) Find(filter Filter) ([]Task, error) {
	if filter.Status != nil {
		status, err := ParseStatus(string(*filter.Status))
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if filter.Priority != nil {
		priority, err := ParsePriority(string(*filter.Priority))
		if err != nil {
			return nil, err
		}
		filter.Priority = &priority
	}
	query := strings.TrimSpace(filter.Query)
	tag := strings.TrimSpace(filter.Tag)

	var result []Task
	for _, task := range s.List() {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if tag != "" && !task.HasTag(tag) {
			continue
		}
		if query != "" && !matchesQuery(task, query) {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func matchesQuery(task Task, query string) bool {
	return internalstrings.ContainsFold(task.Title, query) ||
		internalstrings.ContainsFold(task.Description, query)
}

// Seed admits pre-built tasks, such as demo data, keeping their IDs and
// timestamps. Every task is validated first; on any failure nothing is added.
func (s *Store) Seed(tasks []Task) error {
	for i := range tasks {
		if err := ValidateTask(&tasks[i]); err != nil {
			return fmt.Errorf("seed task %d: %w", i, err)
		}
	}

	err := s.withLock(func() error {
		seen := make(map[string]bool, len(tasks))
		for _, task := range tasks {
			if task.ID == "" {
				return fmt.Errorf("seed task %q: id is required", task.Title)
			}
			if seen[task.ID] || s.indexOfLocked(task.ID) >= 0 {
				return fmt.Errorf("%w: %q", ErrDuplicateID, task.ID)
			}
			seen[task.ID] = true
		}
		for _, task := range tasks {
			task.Priority, _ = ParsePriority(string(task.Priority))
			task.Status, _ = ParseStatus(string(task.Status))
			s.tasks = append(s.tasks, task.clone())
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("tasks seeded", zap.Int("count", len(tasks)))
	s.invalidate("seed", "")
	return nil
}
