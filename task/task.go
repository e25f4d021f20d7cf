package task

import (
	"slices"
	"strings"
	"time"
)

// Task is a single validated task record.
type Task struct {
	// ID is a short unique token assigned at creation. It never changes.
	ID string `json:"id"`

	// Title is the short summary of the task (1-100 characters).
	Title string `json:"title"`

	// Description provides additional context (at most 500 characters).
	Description string `json:"description,omitempty"`

	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`

	// DueDate is the calendar date as entered, empty when unset.
	DueDate string `json:"due_date,omitempty"`

	// Tags is never nil.
	Tags []string `json:"tags"`

	// CreatedAt is when the task was admitted to the store.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Task) clone() Task {
	if t.Tags == nil {
		t.Tags = []string{}
	} else {
		t.Tags = slices.Clone(t.Tags)
	}
	return t
}

// HasTag reports whether the task carries tag, ignoring case.
func (t Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}
