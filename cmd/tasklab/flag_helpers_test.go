package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestResolveDescriptionFromStdin(t *testing.T) {
	got, err := resolveDescriptionFromStdin("-", strings.NewReader("from stdin\n"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "from stdin" {
		t.Fatalf("expected stdin description, got %q", got)
	}

	got, err = resolveDescriptionFromStdin("literal", strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "literal" {
		t.Fatalf("expected literal description, got %q", got)
	}
}

func TestTaskFlagAliases(t *testing.T) {
	var description, priority string
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().StringVar(&description, "description", "", "")
	cmd.Flags().StringVar(&priority, "priority", "", "")
	addTaskFlagAliases(cmd)

	if err := cmd.ParseFlags([]string{"--desc", "hello", "--pri", "high"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if description != "hello" || priority != "high" {
		t.Fatalf("expected aliases to set flags, got %q %q", description, priority)
	}
	if !hasChangedFlags(cmd, "description") {
		t.Fatal("expected description to be marked changed")
	}
}

func TestSetFlagAliasesKeepsExistingNormalizer(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	var dueDate string
	flags.StringVar(&dueDate, "due-date", "", "")
	setFlagAliases(flags, map[string]string{"due": "due_date"})

	if err := flags.Parse([]string{"--due", "2024-03-05"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if dueDate != "2024-03-05" {
		t.Fatalf("expected alias through normalizer, got %q", dueDate)
	}
}

func TestChangedString(t *testing.T) {
	var title string
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&title, "title", "", "")

	if got := changedString(cmd, "title", title); got != nil {
		t.Fatalf("expected nil for unchanged flag, got %q", *got)
	}
	if err := cmd.ParseFlags([]string{"--title", ""}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	got := changedString(cmd, "title", title)
	if got == nil || *got != "" {
		t.Fatalf("expected pointer to empty title, got %v", got)
	}
}

func TestEnumFlag(t *testing.T) {
	tests := map[string]string{
		"HIGH":        "high",
		" Medium ":    "medium",
		"IN_PROGRESS": "in_progress",
		"":            "",
	}
	for input, want := range tests {
		if got := enumFlag(input); got != want {
			t.Errorf("enumFlag(%q) = %q, want %q", input, got, want)
		}
	}
}
