package main

import (
	"strings"
	"time"

	"github.com/amonks/tasklab/internal/ui"
	"github.com/amonks/tasklab/task"
)

func formatTaskTable(tasks []task.Task, prefixLengths map[string]int, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRI", "STATUS", "DUE", "AGE", "TAGS", "TITLE"}, len(tasks))
	highlight := taskIDHighlighter(prefixLengths)

	for _, t := range tasks {
		builder.AddRow(
			highlight(t.ID),
			priorityLabel(t.Priority),
			statusLabel(t.Status),
			valueOrDash(t.DueDate),
			ui.FormatDurationShort(now.Sub(t.CreatedAt)),
			valueOrDash(strings.Join(t.Tags, ",")),
			ui.TruncateTableCell(t.Title),
		)
	}

	return builder.String()
}

func priorityLabel(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return ui.Paint(ui.ToneDanger, string(p))
	case task.PriorityMedium:
		return ui.Paint(ui.ToneWarning, string(p))
	default:
		return ui.Paint(ui.ToneMuted, string(p))
	}
}

func statusLabel(s task.Status) string {
	switch s {
	case task.StatusCompleted:
		return ui.Paint(ui.ToneSuccess, string(s))
	case task.StatusInProgress:
		return ui.Paint(ui.ToneInfo, string(s))
	default:
		return ui.Paint(ui.ToneMuted, string(s))
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
