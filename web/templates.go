package web

import (
	"html/template"
	"strings"
	"time"

	"github.com/amonks/tasklab/task"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"eq":          func(a, b string) bool { return a == b },
		"formatTime":  formatTime,
		"statusLabel": func(status task.Status) string { return status.Label() },
		"joinTags":    func(tags []string) string { return strings.Join(tags, ", ") },
	}
	tmpl := template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
	return template.Must(tmpl.New("task-list").Parse(taskListTemplate))
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04:05")
}

const taskListTemplate = `<ul class="item-list">
  {{range .}}
    <li class="list-item priority-{{.Priority}}">
      <a href="/web/tasks?id={{.ID}}">
        <span class="item-title">{{.Title}}</span>
        <span class="item-meta">{{.ID}} · {{statusLabel .Status}} · {{.Priority}}{{if .DueDate}} · due {{.DueDate}}{{end}}</span>
      </a>
    </li>
  {{else}}
    <li class="muted">No tasks yet.</li>
  {{end}}
</ul>`

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>tasklab · {{.Title}}</title>
  <style>
    body {
      margin: 0;
      font-family: "Iowan Old Style", "Georgia", serif;
      color: #22201c;
      background: #faf7f1;
    }
    header {
      padding: 14px 24px;
      border-bottom: 1px solid #ddd3c3;
      background: #fffdf8;
    }
    header h1 {
      margin: 0 0 6px 0;
      font-size: 19px;
    }
    nav a {
      margin-right: 14px;
      color: #5a5048;
      text-decoration: none;
    }
    nav a.active {
      color: #1b1611;
      font-weight: 600;
      border-bottom: 2px solid #b89f7c;
    }
    main {
      display: flex;
      gap: 18px;
      padding: 18px 24px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #ddd3c3;
      border-radius: 12px;
      padding: 16px 20px;
    }
    .list-pane {
      width: 36%;
      min-width: 240px;
    }
    .detail-pane {
      flex: 1;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
    }
    .list-item a {
      display: block;
      padding: 8px 10px;
      border-left: 3px solid transparent;
      text-decoration: none;
      color: inherit;
    }
    .list-item.priority-high a { border-left-color: #c0573f; }
    .list-item.priority-medium a { border-left-color: #d4a640; }
    .list-item.priority-low a { border-left-color: #7ca36b; }
    .item-title {
      display: block;
      font-weight: 600;
    }
    .item-meta, .muted {
      color: #756b61;
      font-size: 13px;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 4px;
      margin-bottom: 12px;
    }
    input[type="text"], input[type="date"], select, textarea {
      padding: 7px 9px;
      border: 1px solid #cbbfae;
      border-radius: 6px;
      font: inherit;
    }
    textarea {
      min-height: 100px;
    }
    .field-error {
      margin: 0;
      color: #9b2c1f;
      font-size: 13px;
    }
    .error, .notice {
      padding: 9px 12px;
      border-radius: 6px;
      margin-bottom: 12px;
    }
    .error {
      background: #f6dcd7;
      color: #5b1d17;
    }
    .notice {
      background: #e1eedb;
      color: #24401a;
    }
    .actions {
      display: flex;
      gap: 10px;
      margin-top: 12px;
    }
    button {
      padding: 7px 13px;
      border: 1px solid #bfb3a2;
      border-radius: 6px;
      background: #efe6d7;
      font: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f3d4ce;
    }
    .readonly {
      display: grid;
      grid-template-columns: 120px 1fr;
      gap: 4px 12px;
    }
    .readonly dt {
      font-weight: 600;
    }
    .readonly dd {
      margin: 0;
    }
  </style>
</head>
<body>
  <header>
    <h1>tasklab</h1>
    <nav>
      <a class="{{if eq .ActiveTab "tasks"}}active{{end}}" href="/web/tasks">Tasks</a>
      <a class="{{if or (eq .ActiveTab "items") (eq .ActiveTab "item")}}active{{end}}" href="/web/items">Items</a>
    </nav>
  </header>
  <main>
  {{if eq .ActiveTab "tasks"}}
    <section class="pane list-pane">
      <p><strong>Tasks</strong> <a href="/web/tasks">New task</a></p>
      {{.TaskListHTML}}
    </section>
    <section class="pane detail-pane">
      {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
      {{if .TaskError}}<div class="error">{{.TaskError}}</div>{{end}}
      {{if .Create}}
        <h2>Create task</h2>
        <form method="post" action="/web/tasks/create">
          {{template "task-fields" .}}
          <div class="actions">
            <button type="submit">Create task</button>
          </div>
        </form>
      {{else if .SelectedTask}}
        <h2>Edit task</h2>
        <form method="post" action="/web/tasks/update?id={{.SelectedTask.ID}}">
          {{template "task-fields" .}}
          <div class="actions">
            <button type="submit">Save changes</button>
          </div>
        </form>
        <div class="actions">
          {{if ne .SelectedTask.Status "completed"}}
            <form method="post" action="/web/tasks/update?id={{.SelectedTask.ID}}">
              <input type="hidden" name="status" value="completed">
              <button type="submit">Mark completed</button>
            </form>
          {{end}}
          <form method="post" action="/web/tasks/delete?id={{.SelectedTask.ID}}">
            <button class="danger" type="submit">Delete task</button>
          </form>
        </div>
        <dl class="readonly">
          <dt>ID</dt><dd>{{.SelectedTask.ID}}</dd>
          <dt>Tags</dt><dd>{{if .SelectedTask.Tags}}{{joinTags .SelectedTask.Tags}}{{else}}-{{end}}</dd>
          <dt>Created</dt><dd>{{formatTime .SelectedTask.CreatedAt}}</dd>
          <dt>Updated</dt><dd>{{formatTime .SelectedTask.UpdatedAt}}</dd>
        </dl>
      {{end}}
    </section>
  {{else if eq .ActiveTab "items"}}
    <section class="pane detail-pane">
      <form method="get" action="/web/items">
        <div class="field">
          <label for="item-query">Search</label>
          <input id="item-query" type="text" name="q" value="{{.Query}}">
        </div>
        <div class="field">
          <label for="item-category">Category</label>
          <select id="item-category" name="category">
            {{range .Categories}}
              <option value="{{.}}" {{if eq . $.Category}}selected{{end}}>{{.}}</option>
            {{end}}
          </select>
        </div>
        <div class="actions"><button type="submit">Filter</button></div>
      </form>
      <ul class="item-list">
        {{range .Items}}
          <li class="list-item priority-{{.Priority}}">
            <a href="/web/items/{{.ID}}">
              <span class="item-title">{{.Title}}</span>
              <span class="item-meta">{{.Category}} · {{.Priority}}</span>
            </a>
          </li>
        {{else}}
          <li class="muted">No items match.</li>
        {{end}}
      </ul>
    </section>
  {{else if eq .ActiveTab "item"}}
    <section class="pane detail-pane">
      <p><a href="/web/items">Back to items</a></p>
      <h2>{{.Item.Title}}</h2>
      <p>{{.Item.Description}}</p>
      <dl class="readonly">
        <dt>ID</dt><dd>{{.Item.ID}}</dd>
        <dt>Category</dt><dd>{{.Item.Category}}</dd>
        <dt>Priority</dt><dd>{{.Item.Priority}}</dd>
        <dt>Status</dt><dd>{{.Item.Status}}</dd>
        <dt>Order</dt><dd>{{.Item.Metadata.Order}}</dd>
        <dt>Created by</dt><dd>{{.Item.Metadata.CreatedBy}}</dd>
        <dt>Created</dt><dd>{{formatTime .Item.CreatedAt}}</dd>
        <dt>Updated</dt><dd>{{formatTime .Item.UpdatedAt}}</dd>
      </dl>
    </section>
  {{else}}
    <section class="pane detail-pane">
      <h2>Not found</h2>
      <p class="muted">No {{.MissingLabel}} with id "{{.MissingID}}".</p>
      <p><a href="/web/items">Back to items</a></p>
    </section>
  {{end}}
  </main>
</body>
</html>
{{define "task-fields"}}
  <div class="field">
    <label for="task-title">Title</label>
    <input id="task-title" type="text" name="title" value="{{.TaskForm.Title}}">
    {{with index .FieldErrors "title"}}<p class="field-error">{{.}}</p>{{end}}
  </div>
  <div class="field">
    <label for="task-description">Description</label>
    <textarea id="task-description" name="description">{{.TaskForm.Description}}</textarea>
    {{with index .FieldErrors "description"}}<p class="field-error">{{.}}</p>{{end}}
  </div>
  <div class="field">
    <label for="task-priority">Priority</label>
    <select id="task-priority" name="priority">
      {{range .PriorityOptions}}
        <option value="{{.Value}}" {{if eq .Value $.TaskForm.Priority}}selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
    {{with index .FieldErrors "priority"}}<p class="field-error">{{.}}</p>{{end}}
  </div>
  <div class="field">
    <label for="task-status">Status</label>
    <select id="task-status" name="status">
      {{range .StatusOptions}}
        <option value="{{.Value}}" {{if eq .Value $.TaskForm.Status}}selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
    {{with index .FieldErrors "status"}}<p class="field-error">{{.}}</p>{{end}}
  </div>
  <div class="field">
    <label for="task-due-date">Due date</label>
    <input id="task-due-date" type="date" name="dueDate" value="{{.TaskForm.DueDate}}">
    {{with index .FieldErrors "dueDate"}}<p class="field-error">{{.}}</p>{{end}}
  </div>
  <div class="field">
    <label for="task-tags">Tags (comma separated)</label>
    <input id="task-tags" type="text" name="tags" value="{{.TaskForm.Tags}}">
  </div>
{{end}}
`
