package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amonks/tasklab/task"
	"github.com/google/go-cmp/cmp"
)

func TestRenderTaskTOMLCreate(t *testing.T) {
	content, err := RenderTaskTOML(DefaultCreateData())
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}

	for _, want := range []string{
		`title = ""`,
		`priority = "medium"`,
		`status = "pending"`,
		`tags = []`,
		"---",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in:\n%s", want, content)
		}
	}
	if strings.Contains(content, "editing task") {
		t.Error("create document should not name a task")
	}
}

func TestRenderTaskTOMLUpdateRoundTrips(t *testing.T) {
	existing := task.Task{
		ID:          "abc123",
		Title:       `Buy "oat" milk`,
		Description: "From the **corner** shop.\n\nBring a bag.",
		Priority:    task.PriorityHigh,
		Status:      task.StatusInProgress,
		DueDate:     "2024-03-05",
		Tags:        []string{"errands", "home"},
	}

	content, err := RenderTaskTOML(DataFromTask(existing))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}
	if !strings.HasPrefix(content, "# editing task abc123\n") {
		t.Fatalf("expected header comment, got:\n%s", content)
	}

	parsed, err := ParseTaskTOML(content)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}
	want := &ParsedTask{
		Title:       existing.Title,
		Priority:    "high",
		Status:      "in_progress",
		DueDate:     "2024-03-05",
		Tags:        []string{"errands", "home"},
		Description: existing.Description,
	}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Fatalf("parsed mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTaskTOMLNormalizes(t *testing.T) {
	content := "title = \"  Walk dog \"\npriority = \" HIGH \"\nstatus = \"\"\ntags = [\" a \", \"\", \"b\"]\n---\n\nTwice a day.\n\n"

	parsed, err := ParseTaskTOML(content)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}

	want := task.Input{
		Title:       "Walk dog",
		Description: "Twice a day.",
		Priority:    "high",
		Tags:        []string{"a", "b"},
	}
	if diff := cmp.Diff(want, parsed.Input()); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTaskTOMLWithoutSeparator(t *testing.T) {
	parsed, err := ParseTaskTOML("title = \"Only frontmatter\"\npriority = \"low\"\n")
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}
	if parsed.Title != "Only frontmatter" || parsed.Description != "" {
		t.Fatalf("unexpected parse %+v", parsed)
	}
}

func TestParseTaskTOMLErrors(t *testing.T) {
	tests := map[string]string{
		"invalid toml": "title = \n---\n",
		"unknown key":  "title = \"x\"\ntype = \"bug\"\n---\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTaskTOML(content); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParsedTaskPatchSetsEveryField(t *testing.T) {
	parsed := &ParsedTask{Title: "A", Priority: "low", Tags: []string{}}

	patch := parsed.Patch()

	if patch.Title == nil || patch.Description == nil || patch.Priority == nil ||
		patch.Status == nil || patch.DueDate == nil || patch.Tags == nil {
		t.Fatalf("expected every field set, got %+v", patch)
	}
	if *patch.Title != "A" || len(*patch.Tags) != 0 {
		t.Fatalf("unexpected patch values %+v", patch)
	}
}

func TestShouldUse(t *testing.T) {
	tests := []struct {
		name                                      string
		hasFlags, edit, noEdit, interactive, want bool
	}{
		{name: "interactive without flags", interactive: true, want: true},
		{name: "interactive with flags", hasFlags: true, interactive: true, want: false},
		{name: "not interactive", want: false},
		{name: "forced", hasFlags: true, edit: true, want: true},
		{name: "suppressed", interactive: true, noEdit: true, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldUse(tt.hasFlags, tt.edit, tt.noEdit, tt.interactive); got != tt.want {
				t.Fatalf("ShouldUse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditTaskWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "editor.sh")
	body := "#!/bin/sh\nprintf 'title = \"Edited\"\\npriority = \"low\"\\n---\\nNew body\\n' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write editor script: %v", err)
	}
	t.Setenv("EDITOR", script)

	parsed, err := EditTask(DefaultCreateData())
	if err != nil {
		t.Fatalf("EditTask failed: %v", err)
	}
	if parsed.Title != "Edited" || parsed.Priority != "low" || parsed.Description != "New body" {
		t.Fatalf("unexpected parse %+v", parsed)
	}
}

func TestEditReportsEditorFailure(t *testing.T) {
	t.Setenv("EDITOR", "false")

	if err := Edit(filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error from failing editor")
	}
}
