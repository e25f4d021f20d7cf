// Package web serves the server-rendered task and catalog pages.
package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/amonks/tasklab/actions"
	"github.com/amonks/tasklab/catalog"
	internalstrings "github.com/amonks/tasklab/internal/strings"
	"github.com/amonks/tasklab/task"
	"github.com/amonks/tasklab/viewcache"
	"go.uber.org/zap"
)

// Options configures the web handler.
type Options struct {
	Actions *actions.Actions
	Items   []catalog.Item
	Views   *viewcache.Cache
	Logger  *zap.Logger
}

// Handler serves the web client.
type Handler struct {
	actions   *actions.Actions
	items     []catalog.Item
	views     *viewcache.Cache
	logger    *zap.Logger
	mux       *http.ServeMux
	templates *templateWrapper

	mu        sync.Mutex
	taskDraft *taskFormDraft
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	views := opts.Views
	if views == nil {
		views = viewcache.New(logger)
	}
	handler := &Handler{
		actions:   opts.Actions,
		items:     opts.Items,
		views:     views,
		logger:    logger,
		templates: newTemplateWrapper(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/web/tasks", handler.handleTasks)
	mux.HandleFunc("/web/tasks/create", handler.handleTasksCreate)
	mux.HandleFunc("/web/tasks/update", handler.handleTasksUpdate)
	mux.HandleFunc("/web/tasks/delete", handler.handleTasksDelete)
	mux.HandleFunc("/web/items", handler.handleItems)
	mux.HandleFunc("/web/items/", handler.handleItem)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := tw.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (tw *templateWrapper) RenderTaskList(tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	if err := tw.tmpl.ExecuteTemplate(&buf, "task-list", tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type selectOption struct {
	Value string
	Label string
}

type pageData struct {
	ActiveTab string
	Title     string

	TaskListHTML    template.HTML
	SelectedTask    *task.Task
	Create          bool
	TaskForm        taskFormValues
	FieldErrors     map[string]string
	TaskError       string
	Notice          string
	StatusOptions   []selectOption
	PriorityOptions []selectOption

	Items        []catalog.Item
	Item         *catalog.Item
	Query        string
	Category     string
	Categories   []string
	MissingID    string
	MissingLabel string
}

type taskFormValues struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	Tags        string
}

type taskFormDraft struct {
	mode        string
	id          string
	err         string
	notice      string
	fieldErrors map[string]string
	values      taskFormValues
	hasValues   bool
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	listHTML, err := h.views.Get(task.ListScope, h.renderTaskList)
	taskError := ""
	if err != nil {
		h.logger.Error("render task list", zap.Error(err))
		taskError = actions.MessageInternal
	}

	selectedID := trimmedQueryValue(r, "id")
	createMode := selectedID == ""
	formValues := defaultTaskFormValues()
	var selectedTask *task.Task
	if !createMode {
		result := h.actions.ShowTask(selectedID)
		if result.Success {
			selectedTask = &result.Data
			selectedID = result.Data.ID
			formValues = taskFormValuesFromTask(result.Data)
		} else {
			taskError = resultMessage(result.Message, result.Errors)
			createMode = true
			selectedID = ""
		}
	}

	data := pageData{
		ActiveTab:       "tasks",
		Title:           "Tasks",
		TaskListHTML:    template.HTML(listHTML),
		SelectedTask:    selectedTask,
		Create:          createMode,
		TaskForm:        formValues,
		StatusOptions:   statusOptions(),
		PriorityOptions: priorityOptions(),
	}
	if draft := h.consumeTaskDraft(createMode, selectedID); draft != nil {
		if draft.err != "" {
			taskError = draft.err
		}
		data.Notice = draft.notice
		data.FieldErrors = draft.fieldErrors
		if draft.hasValues {
			data.TaskForm = draft.values
		}
	}
	data.TaskError = taskError
	h.render(w, http.StatusOK, data)
}

func (h *Handler) renderTaskList() ([]byte, error) {
	result := h.actions.ListTasks()
	if err := result.Err(); err != nil {
		return nil, err
	}
	return h.templates.RenderTaskList(result.Data)
}

func (h *Handler) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setTaskDraft(taskFormDraft{mode: "create", err: "invalid form input"})
		http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
		return
	}

	result := h.actions.CreateTask(r.PostForm)
	if !result.Success {
		h.setTaskDraft(taskFormDraft{
			mode:        "create",
			err:         result.Message,
			fieldErrors: result.Errors,
			values:      taskFormValuesFromForm(r.PostForm),
			hasValues:   true,
		})
		http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
		return
	}
	h.setTaskDraft(taskFormDraft{mode: "update", id: result.Data.ID, notice: result.Message})
	http.Redirect(w, r, taskRedirectPath(result.Data.ID), http.StatusSeeOther)
}

func (h *Handler) handleTasksUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	taskID := trimmedQueryValue(r, "id")
	if err := r.ParseForm(); err != nil {
		h.setTaskDraft(taskFormDraft{mode: "update", id: taskID, err: "invalid form input"})
		http.Redirect(w, r, taskRedirectPath(taskID), http.StatusSeeOther)
		return
	}
	if taskID == "" {
		h.setTaskDraft(taskFormDraft{mode: "create", err: "task id is required"})
		http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
		return
	}

	result := h.actions.UpdateTaskForm(taskID, r.PostForm)
	switch {
	case result.Success:
		h.setTaskDraft(taskFormDraft{mode: "update", id: taskID, notice: result.Message})
	case result.Kind == actions.KindNotFound:
		h.setTaskDraft(taskFormDraft{mode: "create", err: result.Message})
		http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
		return
	default:
		draft := taskFormDraft{
			mode:        "update",
			id:          taskID,
			err:         result.Message,
			fieldErrors: result.Errors,
		}
		if len(r.PostForm) > 1 {
			draft.values = taskFormValuesFromForm(r.PostForm)
			draft.hasValues = true
		}
		h.setTaskDraft(draft)
	}
	http.Redirect(w, r, taskRedirectPath(taskID), http.StatusSeeOther)
}

func (h *Handler) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	taskID := trimmedQueryValue(r, "id")
	result := h.actions.DeleteTask(taskID)
	if result.Success {
		h.setTaskDraft(taskFormDraft{mode: "create", notice: result.Message})
	} else {
		h.setTaskDraft(taskFormDraft{mode: "create", err: result.Message})
	}
	http.Redirect(w, r, "/web/tasks", http.StatusSeeOther)
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	query := trimmedQueryValue(r, "q")
	category := trimmedQueryValue(r, "category")
	if category == "" {
		category = catalog.CategoryAll
	}
	items := catalog.Search(catalog.FilterByCategory(h.items, category), query)

	h.render(w, http.StatusOK, pageData{
		ActiveTab:  "items",
		Title:      "Items",
		Items:      items,
		Query:      query,
		Category:   category,
		Categories: catalog.Categories(h.items),
	})
}

func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/web/items/"))
	if err != nil || internalstrings.IsBlank(id) || strings.Contains(id, "/") {
		h.renderMissing(w, id)
		return
	}
	item, err := catalog.Find(h.items, id)
	if errors.Is(err, catalog.ErrItemNotFound) {
		h.renderMissing(w, id)
		return
	}
	h.render(w, http.StatusOK, pageData{
		ActiveTab: "item",
		Title:     item.Title,
		Item:      &item,
	})
}

func (h *Handler) renderMissing(w http.ResponseWriter, id string) {
	h.render(w, http.StatusNotFound, pageData{
		ActiveTab:    "missing",
		Title:        "Not found",
		MissingID:    id,
		MissingLabel: "item",
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	if err := h.templates.Render(w, status, data); err != nil {
		h.logger.Error("render page", zap.String("tab", data.ActiveTab), zap.Error(err))
		http.Error(w, actions.MessageInternal, http.StatusInternalServerError)
	}
}

func (h *Handler) consumeTaskDraft(createMode bool, selectedID string) *taskFormDraft {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.taskDraft == nil {
		return nil
	}
	draft := h.taskDraft
	match := false
	if draft.mode == "create" && createMode {
		match = true
	}
	if draft.mode == "update" && draft.id != "" && draft.id == selectedID {
		match = true
	}
	if !match {
		return nil
	}
	h.taskDraft = nil
	return draft
}

func (h *Handler) setTaskDraft(draft taskFormDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taskDraft = &draft
}

func defaultTaskFormValues() taskFormValues {
	return taskFormValues{
		Priority: string(task.PriorityMedium),
		Status:   string(task.StatusPending),
	}
}

func taskFormValuesFromTask(item task.Task) taskFormValues {
	return taskFormValues{
		Title:       item.Title,
		Description: item.Description,
		Priority:    string(item.Priority),
		Status:      string(item.Status),
		DueDate:     item.DueDate,
		Tags:        strings.Join(item.Tags, ", "),
	}
}

func taskFormValuesFromForm(values url.Values) taskFormValues {
	return taskFormValues{
		Title:       values.Get(task.FieldTitle),
		Description: values.Get(task.FieldDescription),
		Priority:    values.Get(task.FieldPriority),
		Status:      values.Get(task.FieldStatus),
		DueDate:     values.Get(task.FieldDueDate),
		Tags:        values.Get(task.FieldTags),
	}
}

func resultMessage(message string, fieldErrors map[string]string) string {
	if idErr := fieldErrors[actions.FieldID]; idErr != "" {
		return idErr
	}
	return message
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func statusOptions() []selectOption {
	options := make([]selectOption, 0, len(task.ValidStatuses()))
	for _, status := range task.ValidStatuses() {
		options = append(options, selectOption{Value: string(status), Label: status.Label()})
	}
	return options
}

func priorityOptions() []selectOption {
	options := []selectOption{{Value: "", Label: "Select a priority"}}
	for _, priority := range task.ValidPriorities() {
		options = append(options, selectOption{Value: string(priority), Label: string(priority)})
	}
	return options
}

func taskRedirectPath(taskID string) string {
	if internalstrings.IsBlank(taskID) {
		return "/web/tasks"
	}
	return "/web/tasks?id=" + url.QueryEscape(taskID)
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
