package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/amonks/tasklab/internal/editor"
	"github.com/amonks/tasklab/internal/listflags"
	"github.com/amonks/tasklab/internal/ui"
	"github.com/amonks/tasklab/server"
	"github.com/amonks/tasklab/task"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks on a running server",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Args:  cobra.NoArgs,
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskShow,
}

var taskUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update a task",
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskUpdate,
}

var taskStartCmd = &cobra.Command{
	Use:   "start <id>...",
	Short: "Mark one or more tasks as in progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(cmd, args, task.StatusInProgress)
	},
}

var taskFinishCmd = &cobra.Command{
	Use:     "finish <id>...",
	Short:   "Mark one or more tasks as completed",
	Aliases: []string{"done"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskStatus(cmd, args, task.StatusCompleted)
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskDelete,
}

var taskAddr string

var (
	taskTitle       string
	taskDescription string
	taskPriority    string
	taskStatus      string
	taskDueDate     string
	taskTags        string
	taskEdit        bool
	taskNoEdit      bool
	taskJSON        bool
)

var taskFieldFlags = []string{"title", "description", "priority", "status", "due-date", "tags"}

var (
	taskListStatus   string
	taskListPriority string
	taskListTag      string
	taskListQuery    string
	taskListAll      bool
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskShowCmd, taskUpdateCmd, taskStartCmd, taskFinishCmd, taskDeleteCmd)
	taskCmd.PersistentFlags().StringVar(&taskAddr, "addr", "", "Server address or port")

	for _, cmd := range []*cobra.Command{taskCreateCmd, taskUpdateCmd} {
		cmd.Flags().StringVar(&taskTitle, "title", "", "Task title")
		cmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Description (use '-' to read from stdin)")
		cmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority (low, medium, high)")
		cmd.Flags().StringVar(&taskStatus, "status", "", "Status (pending, in_progress, completed)")
		cmd.Flags().StringVar(&taskDueDate, "due-date", "", "Due date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&taskTags, "tags", "", "Comma-separated tags")
		cmd.Flags().BoolVarP(&taskEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no field flags)")
		cmd.Flags().BoolVar(&taskNoEdit, "no-edit", false, "Do not open $EDITOR")
	}
	addTaskFlagAliases(taskCreateCmd, taskUpdateCmd)

	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "Filter by status")
	taskListCmd.Flags().StringVar(&taskListPriority, "priority", "", "Filter by priority")
	taskListCmd.Flags().StringVar(&taskListTag, "tag", "", "Filter by tag")
	taskListCmd.Flags().StringVarP(&taskListQuery, "query", "q", "", "Filter by title or description substring")
	listflags.AddAllFlag(taskListCmd, &taskListAll)

	for _, cmd := range []*cobra.Command{taskCreateCmd, taskListCmd, taskShowCmd, taskUpdateCmd} {
		cmd.Flags().BoolVar(&taskJSON, "json", false, "Output as JSON")
	}
}

func runTaskCreate(cmd *cobra.Command, _ []string) error {
	description, err := resolveDescriptionFromStdin(taskDescription, os.Stdin)
	if err != nil {
		return err
	}
	in := task.Input{
		Title:       taskTitle,
		Description: description,
		Priority:    enumFlag(taskPriority),
		Status:      enumFlag(taskStatus),
		DueDate:     taskDueDate,
		Tags:        task.ParseTags(taskTags),
	}

	if editor.ShouldUse(hasChangedFlags(cmd, taskFieldFlags...), taskEdit, taskNoEdit, editor.IsInteractive()) {
		data := editor.DefaultCreateData()
		data.Title = in.Title
		data.Description = in.Description
		if cmd.Flags().Changed("priority") {
			data.Priority = in.Priority
		}
		if cmd.Flags().Changed("status") {
			data.Status = in.Status
		}
		data.DueDate = in.DueDate
		if len(in.Tags) > 0 {
			data.Tags = in.Tags
		}
		parsed, err := editor.EditTask(data)
		if err != nil {
			return err
		}
		in = parsed.Input()
	}

	client, err := newClient(taskAddr)
	if err != nil {
		return err
	}
	created, err := client.CreateTask(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if taskJSON {
		return encodeJSON(out, created)
	}
	fmt.Fprintf(out, "Created task %s: %s\n", created.ID, created.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	client, err := newClient(taskAddr)
	if err != nil {
		return err
	}

	var tasks []task.Task
	if hasChangedFlags(cmd, "status", "priority", "tag", "query") {
		tasks, err = client.FindTasks(cmd.Context(), taskListFilter(cmd))
	} else {
		tasks, err = client.ListTasks(cmd.Context())
	}
	if err != nil {
		return err
	}
	if !taskListAll && !cmd.Flags().Changed("status") {
		tasks = withoutCompleted(tasks)
	}

	out := cmd.OutOrStdout()
	if taskJSON {
		return encodeJSON(out, tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	fmt.Fprint(out, formatTaskTable(tasks, taskIDPrefixLengths(tasks), time.Now()))
	return nil
}

func withoutCompleted(tasks []task.Task) []task.Task {
	open := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != task.StatusCompleted {
			open = append(open, t)
		}
	}
	return open
}

func taskListFilter(cmd *cobra.Command) task.Filter {
	filter := task.Filter{Tag: taskListTag, Query: taskListQuery}
	if cmd.Flags().Changed("status") {
		status := task.Status(enumFlag(taskListStatus))
		filter.Status = &status
	}
	if cmd.Flags().Changed("priority") {
		priority := task.Priority(enumFlag(taskListPriority))
		filter.Priority = &priority
	}
	return filter
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	client, err := newClient(taskAddr)
	if err != nil {
		return err
	}

	tasks := make([]task.Task, 0, len(args))
	for _, prefix := range args {
		shown, err := client.ShowTask(cmd.Context(), prefix)
		if err != nil {
			return fmt.Errorf("show %s: %w", prefix, err)
		}
		tasks = append(tasks, shown)
	}

	out := cmd.OutOrStdout()
	if taskJSON {
		return encodeJSON(out, tasks)
	}
	for i, shown := range tasks {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, formatTaskDetail(shown))
	}
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	hasFieldFlags := hasChangedFlags(cmd, taskFieldFlags...)
	useEditor := editor.ShouldUse(hasFieldFlags, taskEdit, taskNoEdit, editor.IsInteractive())
	if !hasFieldFlags && !useEditor {
		return fmt.Errorf("nothing to update: set at least one of --title, --description, --priority, --status, --due-date, --tags")
	}
	if cmd.Flags().Changed("description") {
		description, err := resolveDescriptionFromStdin(taskDescription, os.Stdin)
		if err != nil {
			return err
		}
		taskDescription = description
	}

	patch := task.Patch{
		Title:       changedString(cmd, "title", taskTitle),
		Description: changedString(cmd, "description", taskDescription),
		Priority:    changedString(cmd, "priority", enumFlag(taskPriority)),
		Status:      changedString(cmd, "status", enumFlag(taskStatus)),
		DueDate:     changedString(cmd, "due-date", taskDueDate),
	}
	if cmd.Flags().Changed("tags") {
		patch.Tags = task.TagsPtr(task.ParseTags(taskTags)...)
	}

	client, err := newClient(taskAddr)
	if err != nil {
		return err
	}
	target, err := client.ShowTask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("update %s: %w", args[0], err)
	}

	if useEditor {
		data := editor.DataFromTask(target)
		data = applyPatchToData(data, patch)
		parsed, err := editor.EditTask(data)
		if err != nil {
			return err
		}
		patch = parsed.Patch()
	}

	updated, err := client.UpdateTask(cmd.Context(), target.ID, patch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if taskJSON {
		return encodeJSON(out, updated)
	}
	fmt.Fprintf(out, "Updated task %s: %s\n", updated.ID, updated.Title)
	return nil
}

// applyPatchToData pre-fills the editor with values given as flags.
func applyPatchToData(data editor.TaskData, patch task.Patch) editor.TaskData {
	if patch.Title != nil {
		data.Title = *patch.Title
	}
	if patch.Description != nil {
		data.Description = *patch.Description
	}
	if patch.Priority != nil {
		data.Priority = *patch.Priority
	}
	if patch.Status != nil {
		data.Status = *patch.Status
	}
	if patch.DueDate != nil {
		data.DueDate = *patch.DueDate
	}
	if patch.Tags != nil {
		data.Tags = *patch.Tags
	}
	return data
}

func setTaskStatus(cmd *cobra.Command, args []string, status task.Status) error {
	client, err := newClient(taskAddr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, prefix := range args {
		updated, err := updateByPrefix(cmd.Context(), client, prefix, task.Patch{Status: task.StringPtr(string(status))})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s task %s: %s\n", status.Label(), updated.ID, updated.Title)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient(taskAddr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, prefix := range args {
		target, err := client.ShowTask(cmd.Context(), prefix)
		if err != nil {
			return fmt.Errorf("delete %s: %w", prefix, err)
		}
		if err := client.DeleteTask(cmd.Context(), target.ID); err != nil {
			return fmt.Errorf("delete %s: %w", prefix, err)
		}
		fmt.Fprintf(out, "Deleted task %s: %s\n", target.ID, target.Title)
	}
	return nil
}

// updateByPrefix resolves prefix to a full ID before applying patch.
func updateByPrefix(ctx context.Context, client *server.Client, prefix string, patch task.Patch) (task.Task, error) {
	target, err := client.ShowTask(ctx, prefix)
	if err != nil {
		return task.Task{}, fmt.Errorf("update %s: %w", prefix, err)
	}
	return client.UpdateTask(ctx, target.ID, patch)
}

func taskIDPrefixLengths(tasks []task.Task) map[string]int {
	return task.NewIDIndex(tasks).PrefixLengths()
}

func taskIDHighlighter(prefixLengths map[string]int) func(string) string {
	return func(id string) string {
		return ui.HighlightID(id, prefixLengths[id])
	}
}
