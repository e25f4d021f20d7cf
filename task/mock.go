package task

import (
	"fmt"
	"time"
)

var mockTitles = []string{
	"Ship the client deliverable",
	"Read a book",
	"Go for a run",
	"Write some code",
	"Clean the house",
}

var mockTags = []string{"important", "work", "personal"}

// MockTasks builds count demo tasks relative to now. IDs are task-1, task-2, ...
// Due dates fall one day apart starting today; timestamps step back in time.
func MockTasks(count int, now time.Time) []Task {
	if count <= 0 {
		return nil
	}
	now = now.UTC()
	priorities := ValidPriorities()
	statuses := ValidStatuses()

	tasks := make([]Task, 0, count)
	for i := 0; i < count; i++ {
		title := mockTitles[i%len(mockTitles)]
		tags := make([]string, i%len(mockTags)+1)
		copy(tags, mockTags)
		tasks = append(tasks, Task{
			ID:          fmt.Sprintf("task-%d", i+1),
			Title:       title,
			Description: "Details for: " + title,
			Priority:    priorities[i%len(priorities)],
			Status:      statuses[i%len(statuses)],
			DueDate:     now.AddDate(0, 0, i).Format(time.DateOnly),
			Tags:        tags,
			CreatedAt:   now.Add(-time.Duration(i) * time.Hour),
			UpdatedAt:   now.Add(-time.Duration(i) * 30 * time.Minute),
		})
	}
	return tasks
}
