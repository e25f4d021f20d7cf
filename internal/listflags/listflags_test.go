package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestAddAllFlagBindsTarget(t *testing.T) {
	var all bool
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, &all)

	if err := cmd.ParseFlags([]string{"--all"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !all {
		t.Fatal("expected --all to set target")
	}
}

func TestAddAllFlagWithoutTarget(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, nil)

	if cmd.Flags().Lookup("all") == nil {
		t.Fatal("expected --all flag")
	}
}
