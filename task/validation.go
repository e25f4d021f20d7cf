package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	internalstrings "github.com/amonks/tasklab/internal/strings"
	"github.com/amonks/tasklab/internal/validation"
)

// Field names used as keys in validation error maps and form inputs.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldDueDate     = "dueDate"
	FieldTags        = "tags"
)

var (
	// ErrTitleRequired is returned when a task title is empty.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = fmt.Errorf("title must be at most %d characters", MaxTitleLength)

	// ErrDescriptionTooLong is returned when a description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)

	// ErrPriorityRequired is returned when no priority is selected.
	ErrPriorityRequired = errors.New("select a priority")

	// ErrInvalidPriority is returned when an unknown priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned when an unknown status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDueDate is returned when a due date cannot be parsed.
	ErrInvalidDueDate = errors.New("enter a valid date")

	// ErrTaskNotFound is returned when no task has the given ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousTaskIDPrefix = errors.New("ambiguous task ID prefix")

	// ErrDuplicateID is returned when a seeded task reuses an existing ID.
	ErrDuplicateID = errors.New("duplicate task ID")

	// ErrIDGeneration is returned when no unused ID could be generated.
	ErrIDGeneration = errors.New("could not generate a unique task ID")
)

// dueDateLayouts are the accepted calendar date formats, most specific last.
var dueDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// FieldPath joins nested field names into an error map key.
func FieldPath(parts ...string) string {
	return strings.Join(parts, ".")
}

// ValidationError reports every field that failed validation.
// Fields maps a field path to a human-readable message, one entry per field.
type ValidationError struct {
	Fields map[string]string

	errs map[string]error
}

// Error implements error.
func (e *ValidationError) Error() string {
	paths := e.Paths()
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, path+": "+e.Fields[path])
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// Unwrap returns the per-field errors so errors.Is can match them.
func (e *ValidationError) Unwrap() []error {
	paths := e.Paths()
	errs := make([]error, 0, len(paths))
	for _, path := range paths {
		if err, ok := e.errs[path]; ok {
			errs = append(errs, err)
		}
	}
	return errs
}

// Paths returns the failing field paths in sorted order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// NewValidationError builds a ValidationError from a field path -> message map.
// It is used to rebuild errors that crossed a process boundary.
func NewValidationError(fields map[string]string) *ValidationError {
	copied := make(map[string]string, len(fields))
	for path, message := range fields {
		copied[path] = message
	}
	return &ValidationError{Fields: copied}
}

type fieldErrors struct {
	messages map[string]string
	errs     map[string]error
}

// add records err for the field path unless the path already failed.
func (f *fieldErrors) add(err error, path ...string) {
	if err == nil {
		return
	}
	key := FieldPath(path...)
	if f.messages == nil {
		f.messages = make(map[string]string)
		f.errs = make(map[string]error)
	}
	if _, exists := f.messages[key]; exists {
		return
	}
	f.messages[key] = err.Error()
	f.errs[key] = err
}

func (f *fieldErrors) err() error {
	if len(f.messages) == 0 {
		return nil
	}
	return &ValidationError{Fields: f.messages, errs: f.errs}
}

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if internalstrings.IsBlank(title) {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateDescription checks if the description is valid.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ValidateDueDate checks that a non-empty due date parses as a calendar date.
func ValidateDueDate(dueDate string) error {
	if dueDate == "" {
		return nil
	}
	if _, ok := ParseDueDate(dueDate); !ok {
		return ErrInvalidDueDate
	}
	return nil
}

// ParseDueDate parses a due date in any accepted layout.
func ParseDueDate(dueDate string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, dueDate)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ParsePriority validates a priority value. Only the exact lowercase names
// are accepted; callers that take looser input normalize it first.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(value)
	if priority == "" {
		return "", ErrPriorityRequired
	}
	if !priority.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, priority, ValidPriorities())
	}
	return priority, nil
}

// ParseStatus validates a status value. An empty value yields StatusPending.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if status == "" {
		return StatusPending, nil
	}
	if !status.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidStatus, status, ValidStatuses())
	}
	return status, nil
}

// buildTask validates in and returns the task fields it describes.
// ID and timestamps are left for the store to assign.
func buildTask(in Input) (Task, error) {
	var errs fieldErrors

	errs.add(ValidateTitle(in.Title), FieldTitle)
	errs.add(ValidateDescription(in.Description), FieldDescription)

	priority, err := ParsePriority(in.Priority)
	errs.add(err, FieldPriority)

	status, err := ParseStatus(in.Status)
	errs.add(err, FieldStatus)

	errs.add(ValidateDueDate(in.DueDate), FieldDueDate)

	if err := errs.err(); err != nil {
		return Task{}, err
	}

	tags := make([]string, len(in.Tags))
	copy(tags, in.Tags)

	return Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      status,
		DueDate:     in.DueDate,
		Tags:        tags,
	}, nil
}

// ValidateTask checks a complete record against the same contract Create uses.
func ValidateTask(t *Task) error {
	_, err := buildTask(inputFromTask(*t))
	return err
}
