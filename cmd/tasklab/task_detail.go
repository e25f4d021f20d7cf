package main

import (
	"fmt"
	"strings"

	"github.com/amonks/tasklab/internal/markdown"
	"github.com/amonks/tasklab/task"
)

const detailLineWidth = 80
const detailTimeLayout = "2006-01-02 15:04:05"

// formatTaskDetail renders every field of t, with the description as markdown.
func formatTaskDetail(t task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:       %s\n", t.ID)
	fmt.Fprintf(&b, "Title:    %s\n", t.Title)
	fmt.Fprintf(&b, "Status:   %s\n", t.Status.Label())
	fmt.Fprintf(&b, "Priority: %s\n", priorityLabel(t.Priority))
	fmt.Fprintf(&b, "Due:      %s\n", valueOrDash(t.DueDate))
	fmt.Fprintf(&b, "Tags:     %s\n", valueOrDash(strings.Join(t.Tags, ", ")))
	fmt.Fprintf(&b, "Created:  %s\n", t.CreatedAt.Format(detailTimeLayout))
	fmt.Fprintf(&b, "Updated:  %s\n", t.UpdatedAt.Format(detailTimeLayout))

	if description := markdown.Render(detailLineWidth, 2, []byte(t.Description)); description != nil {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", description)
	}
	return b.String()
}
