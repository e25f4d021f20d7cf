// Package task implements an in-memory store of validated task records.
//
// Records live only for the lifetime of the Store that holds them. The public
// API mirrors the task actions:
//   - Create, Update, Delete for mutations
//   - List, Find, Get, Resolve for queries
//
// Every accepted mutation signals the configured Invalidator so cached views
// of the task list can be rebuilt.
package task

// Status represents the progress of a task.
type Status string

const (
	// StatusPending indicates work has not started. It is the default.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the task is finished.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Priority represents the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns all valid priority values, least important first.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// PriorityRank returns the sort rank for a priority (0 = most important).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

const (
	// MaxTitleLength is the maximum allowed length for a task title, in characters.
	MaxTitleLength = 100

	// MaxDescriptionLength is the maximum allowed length for a description, in characters.
	MaxDescriptionLength = 500
)

// ListScope names the task listing view in invalidation signals.
const ListScope = "/tasks"
