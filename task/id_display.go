package task

import (
	"fmt"
	"strings"

	"github.com/amonks/tasklab/internal/ids"
)

// IDIndex indexes task IDs for prefix matching and display.
// Matching ignores case; results keep each ID's original casing.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of tasks.
func NewIDIndex(tasks []Task) IDIndex {
	taskIDs := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != "" {
			taskIDs = append(taskIDs, task.ID)
		}
	}
	return IDIndex{ids: taskIDs}
}

// Resolve returns the full task ID for a prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", notFoundError(prefix)
	}

	match, found, ambiguous := ids.MatchPrefix(index.ids, prefix)
	if !found {
		return "", notFoundError(prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousTaskIDPrefix, prefix)
	}

	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID,
// keyed by the ID as stored.
func (index IDIndex) PrefixLengths() map[string]int {
	normalized := ids.UniquePrefixLengths(index.ids)
	lengths := make(map[string]int, len(index.ids))
	for _, id := range index.ids {
		lengths[id] = normalized[strings.ToLower(id)]
	}
	return lengths
}
