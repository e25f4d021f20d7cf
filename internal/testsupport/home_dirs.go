package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureHomeDirs creates the global config directory under homeDir.
func EnsureHomeDirs(homeDir string) error {
	if err := os.MkdirAll(filepath.Join(homeDir, ".config", "tasklab"), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}

// SetupTestHome creates a temp home directory, ensures the config dir, sets
// HOME and clears TASKLAB_* overrides inherited from the caller.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, name := range EnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return homeDir
}

// EnvVars lists the environment variables tasklab reads.
var EnvVars = []string{
	"TASKLAB_PORT",
	"TASKLAB_LOG_LEVEL",
	"TASKLAB_LOG_FORMAT",
	"TASKLAB_SEED_TASKS",
	"TASKLAB_SEED_ITEMS",
	"TASKLAB_LOOSE_UPDATES",
}
