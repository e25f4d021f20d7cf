package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testNow = time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

func ids(items []Item) []string {
	var result []string
	for _, item := range items {
		result = append(result, item.ID)
	}
	return result
}

func TestGenerate(t *testing.T) {
	items := Generate(7, testNow)
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}

	sixth := items[5]
	want := Item{
		ID:          "item-6",
		Title:       "Item 6",
		Description: "Description for item 6",
		Category:    "work",
		Priority:    PriorityHigh,
		Status:      StatusActive,
		Metadata:    Metadata{Order: 6, CreatedBy: "system"},
		CreatedAt:   testNow.Add(-5 * time.Hour),
		UpdatedAt:   testNow.Add(-150 * time.Minute),
	}
	if diff := cmp.Diff(want, sixth); diff != "" {
		t.Errorf("item mismatch (-want +got):\n%s", diff)
	}

	if Generate(0, testNow) != nil {
		t.Error("expected nil for zero count")
	}
}

func TestSearch(t *testing.T) {
	items := Generate(12, testNow)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank returns all", "  ", ids(items)},
		{"title match ignores case", "ITEM 11", []string{"item-11"}},
		{"description match", "description for item 1", []string{"item-1", "item-10", "item-11", "item-12"}},
		{"no match", "nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(Search(items, tt.query))); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestFilterByCategory(t *testing.T) {
	items := Generate(10, testNow)

	if got := FilterByCategory(items, CategoryAll); len(got) != 10 {
		t.Fatalf("all: expected 10 items, got %d", len(got))
	}
	if diff := cmp.Diff([]string{"item-4", "item-9"}, ids(FilterByCategory(items, "health"))); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
	if got := FilterByCategory(items, "garden"); len(got) != 0 {
		t.Errorf("unknown category: expected none, got %v", ids(got))
	}
}

func TestCategories(t *testing.T) {
	want := []string{"all", "work", "personal", "shopping"}
	if diff := cmp.Diff(want, Categories(Generate(3, testNow))); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"all"}, Categories(nil)); diff != "" {
		t.Errorf("empty categories mismatch (-want +got):\n%s", diff)
	}
}

func TestFind(t *testing.T) {
	items := Generate(3, testNow)

	item, err := Find(items, "item-2")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if item.Title != "Item 2" {
		t.Errorf("title = %q, want Item 2", item.Title)
	}

	if _, err := Find(items, "item-99"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
