package task

import (
	"net/url"
	"slices"

	internalstrings "github.com/amonks/tasklab/internal/strings"
)

// Input carries raw field values for a new task, as collected by a form, CLI or API.
// Enumerated fields stay strings here; Create rejects unknown values.
type Input struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Patch configures fields to change on an existing task.
// Nil pointers mean "don't update this field".
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Status      *string   `json:"status,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Status == nil && p.DueDate == nil && p.Tags == nil
}

// ParseTags splits a comma-delimited tag string into trimmed, non-empty tags.
func ParseTags(raw string) []string {
	return internalstrings.SplitTrimmed(raw, ",")
}

// InputFromForm collects create input from submitted form values.
// Surrounding whitespace is trimmed from every text field.
func InputFromForm(values url.Values) Input {
	return Input{
		Title:       internalstrings.TrimSpace(values.Get(FieldTitle)),
		Description: internalstrings.TrimSpace(values.Get(FieldDescription)),
		Priority:    internalstrings.TrimSpace(values.Get(FieldPriority)),
		Status:      internalstrings.TrimSpace(values.Get(FieldStatus)),
		DueDate:     internalstrings.TrimSpace(values.Get(FieldDueDate)),
		Tags:        ParseTags(values.Get(FieldTags)),
	}
}

// PatchFromForm collects update input from submitted form values.
// Only fields present in the form are set.
func PatchFromForm(values url.Values) Patch {
	var patch Patch
	field := func(name string) *string {
		if !values.Has(name) {
			return nil
		}
		value := internalstrings.TrimSpace(values.Get(name))
		return &value
	}
	patch.Title = field(FieldTitle)
	patch.Description = field(FieldDescription)
	patch.Priority = field(FieldPriority)
	patch.Status = field(FieldStatus)
	patch.DueDate = field(FieldDueDate)
	if values.Has(FieldTags) {
		tags := ParseTags(values.Get(FieldTags))
		patch.Tags = &tags
	}
	return patch
}

func inputFromTask(t Task) Input {
	return Input{
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		Tags:        slices.Clone(t.Tags),
	}
}

// apply shallow-merges the non-nil patch fields over in.
func (p Patch) apply(in Input) Input {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Priority != nil {
		in.Priority = *p.Priority
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.DueDate != nil {
		in.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		in.Tags = slices.Clone(*p.Tags)
	}
	return in
}

// StringPtr returns a pointer to s, for building patches.
func StringPtr(s string) *string {
	return &s
}

// TagsPtr returns a pointer to tags, for building patches.
func TagsPtr(tags ...string) *[]string {
	if tags == nil {
		tags = []string{}
	}
	return &tags
}
