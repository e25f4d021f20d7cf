// Package catalog provides the browsable list of demo items shown next to the
// task store: generation, search and category filtering.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

// CategoryAll matches every item in FilterByCategory and leads Categories.
const CategoryAll = "all"

// DefaultCount is how many items Generate builds for demo mode.
const DefaultCount = 10

// ErrItemNotFound is returned when no item has the given ID.
var ErrItemNotFound = errors.New("item not found")

// Status reports whether an item is shown as active.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Priority mirrors the task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Metadata carries bookkeeping fields for an item.
type Metadata struct {
	Order     int    `json:"order"`
	CreatedBy string `json:"created_by"`
}

// Item is one catalog entry.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Metadata    Metadata  `json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var categories = []string{"work", "personal", "shopping", "health", "learning"}

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Generate builds count items relative to now. IDs are item-1, item-2, ...
// Each item is one hour older than the previous and was last touched half an
// hour further back.
func Generate(count int, now time.Time) []Item {
	if count <= 0 {
		return nil
	}
	now = now.UTC()

	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		n := i + 1
		items = append(items, Item{
			ID:          fmt.Sprintf("item-%d", n),
			Title:       fmt.Sprintf("Item %d", n),
			Description: fmt.Sprintf("Description for item %d", n),
			Category:    categories[i%len(categories)],
			Priority:    priorities[i%len(priorities)],
			Status:      StatusActive,
			Metadata:    Metadata{Order: n, CreatedBy: "system"},
			CreatedAt:   now.Add(-time.Duration(i) * time.Hour),
			UpdatedAt:   now.Add(-time.Duration(i) * 30 * time.Minute),
		})
	}
	return items
}
