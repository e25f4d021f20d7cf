package actions

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/amonks/tasklab/task"
	"go.uber.org/zap"
)

// Actions runs task operations against a store.
type Actions struct {
	store  *task.Store
	logger *zap.Logger
}

// New creates Actions for store. A nil logger discards logs.
func New(store *task.Store, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actions{store: store, logger: logger}
}

// CreateTask creates a task from submitted form values.
// Tags arrive as one comma-delimited field.
func (a *Actions) CreateTask(values url.Values) Result[task.Task] {
	return a.CreateTaskInput(task.InputFromForm(values))
}

// CreateTaskInput creates a task from already-collected input.
func (a *Actions) CreateTaskInput(in task.Input) Result[task.Task] {
	return run(a, "create", MessageCreated, func() (task.Task, error) {
		return a.store.Create(in)
	})
}

// ListTasks returns every task in insertion order.
func (a *Actions) ListTasks() Result[[]task.Task] {
	return run(a, "list", "", func() ([]task.Task, error) {
		return a.store.List(), nil
	})
}

// FindTasks returns the tasks matching filter.
func (a *Actions) FindTasks(filter task.Filter) Result[[]task.Task] {
	return run(a, "find", "", func() ([]task.Task, error) {
		found, err := a.store.Find(filter)
		if err != nil {
			return nil, filterError(err)
		}
		if found == nil {
			found = []task.Task{}
		}
		return found, nil
	})
}

// ShowTask returns the task whose ID starts with prefix.
func (a *Actions) ShowTask(prefix string) Result[task.Task] {
	return run(a, "show", "", func() (task.Task, error) {
		id, err := a.store.Resolve(prefix)
		if err != nil {
			return task.Task{}, err
		}
		return a.store.Get(id)
	})
}

// UpdateTask merges patch into the task with the given ID.
func (a *Actions) UpdateTask(id string, patch task.Patch) Result[task.Task] {
	return run(a, "update", MessageUpdated, func() (task.Task, error) {
		return a.store.Update(id, patch)
	})
}

// UpdateTaskForm merges the fields present in values into the task with the given ID.
func (a *Actions) UpdateTaskForm(id string, values url.Values) Result[task.Task] {
	return a.UpdateTask(id, task.PatchFromForm(values))
}

// DeleteTask removes the task with the given ID. Data carries the removed ID.
func (a *Actions) DeleteTask(id string) Result[string] {
	return run(a, "delete", MessageDeleted, func() (string, error) {
		if err := a.store.Delete(id); err != nil {
			return "", err
		}
		return id, nil
	})
}

// run executes fn and converts its outcome, including panics, into a Result.
func run[T any](a *Actions, op, successMessage string, fn func() (T, error)) (result Result[T]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			a.logger.Error("task action panicked",
				zap.String("op", op),
				zap.Any("panic", recovered),
				zap.Stack("stack"))
			result = Result[T]{Message: MessageInternal, Kind: KindInternal}
		}
	}()

	data, err := fn()
	if err != nil {
		return failure[T](a, op, err)
	}
	return Result[T]{Success: true, Data: data, Message: successMessage}
}

func failure[T any](a *Actions, op string, err error) Result[T] {
	var validationErr *task.ValidationError
	switch {
	case errors.As(err, &validationErr):
		a.logger.Debug("task action rejected input", zap.String("op", op), zap.Strings("fields", validationErr.Paths()))
		return Result[T]{Errors: validationErr.Fields, Message: MessageInvalid, Kind: KindValidation}
	case errors.Is(err, task.ErrAmbiguousTaskIDPrefix):
		return Result[T]{Errors: map[string]string{FieldID: err.Error()}, Message: MessageInvalid, Kind: KindValidation}
	case errors.Is(err, task.ErrTaskNotFound):
		return Result[T]{Message: MessageNotFound, Kind: KindNotFound}
	default:
		a.logger.Error("task action failed", zap.String("op", op), zap.Error(err))
		return Result[T]{Message: MessageInternal, Kind: KindInternal}
	}
}

// filterError attributes a rejected filter value to its field.
func filterError(err error) error {
	var errs map[string]string
	switch {
	case errors.Is(err, task.ErrInvalidStatus):
		errs = map[string]string{task.FieldStatus: err.Error()}
	case errors.Is(err, task.ErrInvalidPriority), errors.Is(err, task.ErrPriorityRequired):
		errs = map[string]string{task.FieldPriority: err.Error()}
	default:
		return fmt.Errorf("find tasks: %w", err)
	}
	return task.NewValidationError(errs)
}
