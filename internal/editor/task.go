package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/amonks/tasklab/internal/strings"
	"github.com/amonks/tasklab/task"
)

// TaskData is the editable view of a task.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID          string
	Title       string
	Priority    string
	Status      string
	DueDate     string
	Tags        []string
	Description string
}

// DefaultCreateData returns TaskData with default values for a new task.
func DefaultCreateData() TaskData {
	return TaskData{
		Priority: string(task.PriorityMedium),
		Status:   string(task.StatusPending),
		Tags:     []string{},
	}
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(t task.Task) TaskData {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		Tags:        tags,
		Description: t.Description,
	}
}

var taskTemplate = template.Must(template.New("task").Funcs(template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	"quoteList": func(values []string) string {
		quoted := make([]string, len(values))
		for i, value := range values {
			quoted[i] = fmt.Sprintf("%q", value)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	},
}).Parse(`{{- if .IsUpdate }}# editing task {{ .ID }}
{{ end -}}
title = {{ quote .Title }}
priority = {{ quote .Priority }} # low, medium, high
status = {{ quote .Status }} # pending, in_progress, completed
due_date = {{ quote .DueDate }} # YYYY-MM-DD, empty for none
tags = {{ quoteList .Tags }}
---
{{ .Description }}
`))

// RenderTaskTOML renders the task data as a TOML document for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask is the result of parsing an edited document.
// Field values are left for the task store to validate.
type ParsedTask struct {
	Title       string   `toml:"title"`
	Priority    string   `toml:"priority"`
	Status      string   `toml:"status"`
	DueDate     string   `toml:"due_date"`
	Tags        []string `toml:"tags"`
	Description string   `toml:"-"`
}

// ParseTaskTOML parses an edited document.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTask
	meta, err := toml.Decode(frontmatter, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse TOML: unknown key %s", undecoded[0])
	}

	parsed.Title = internalstrings.TrimSpace(parsed.Title)
	parsed.Priority = internalstrings.NormalizeLowerTrimSpace(parsed.Priority)
	parsed.Status = internalstrings.NormalizeLowerTrimSpace(parsed.Status)
	parsed.DueDate = internalstrings.TrimSpace(parsed.DueDate)
	tags := make([]string, 0, len(parsed.Tags))
	for _, tag := range parsed.Tags {
		if tag = internalstrings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	parsed.Tags = tags
	parsed.Description = internalstrings.TrimTrailingNewlines(strings.TrimLeft(body, "\n"))
	return &parsed, nil
}

// Input converts the parsed document into create input.
func (p *ParsedTask) Input() task.Input {
	return task.Input{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Status:      p.Status,
		DueDate:     p.DueDate,
		Tags:        p.Tags,
	}
}

// Patch converts the parsed document into a patch that sets every field.
func (p *ParsedTask) Patch() task.Patch {
	return task.Patch{
		Title:       task.StringPtr(p.Title),
		Description: task.StringPtr(p.Description),
		Priority:    task.StringPtr(p.Priority),
		Status:      task.StringPtr(p.Status),
		DueDate:     task.StringPtr(p.DueDate),
		Tags:        task.TagsPtr(p.Tags...),
	}
}

// EditTask opens the editor with data and returns the parsed result.
func EditTask(data TaskData) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "tasklab-task-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseTaskTOML(string(edited))
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(internalstrings.NormalizeNewlines(content), "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}
