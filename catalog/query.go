package catalog

import (
	"fmt"

	internalstrings "github.com/amonks/tasklab/internal/strings"
)

// Search returns items whose title or description contains query, ignoring
// case. A blank query returns items unchanged.
func Search(items []Item, query string) []Item {
	if internalstrings.IsBlank(query) {
		return items
	}

	var result []Item
	for _, item := range items {
		if internalstrings.ContainsFold(item.Title, query) ||
			internalstrings.ContainsFold(item.Description, query) {
			result = append(result, item)
		}
	}
	return result
}

// FilterByCategory returns items in category. CategoryAll returns items unchanged.
func FilterByCategory(items []Item, category string) []Item {
	if category == CategoryAll {
		return items
	}

	var result []Item
	for _, item := range items {
		if item.Category == category {
			result = append(result, item)
		}
	}
	return result
}

// Categories lists CategoryAll followed by each distinct category in the order
// it first appears.
func Categories(items []Item) []string {
	result := []string{CategoryAll}
	seen := map[string]bool{CategoryAll: true}
	for _, item := range items {
		if seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		result = append(result, item.Category)
	}
	return result
}

// Find returns the item with the given ID.
func Find(items []Item, id string) (Item, error) {
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}
