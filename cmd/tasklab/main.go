// Package main implements the tasklab CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amonks/tasklab/actions"
	"github.com/amonks/tasklab/internal/config"
	"github.com/amonks/tasklab/internal/paths"
	"github.com/amonks/tasklab/server"
	"github.com/amonks/tasklab/task"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(os.Stderr, err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tasklab",
	Short:         "Tasklab - a validated in-memory task store with a web UI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// printCommandError writes err for a terminal. Rejected input lists one line
// per field.
func printCommandError(w io.Writer, err error) {
	var validationErr *task.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintf(w, "Error: %s\n", actions.MessageInvalid)
		for _, path := range validationErr.Paths() {
			fmt.Fprintf(w, "  %s: %s\n", path, validationErr.Fields[path])
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// loadConfig loads tasklab.toml from the working directory merged with the
// global config and the environment.
func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}

// newClient returns a client for the server at addr, or at the configured
// port when addr is empty.
func newClient(addr string) (*server.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	resolved, err := server.ResolveAddr(cfg.Server.Port, addr)
	if err != nil {
		return nil, err
	}
	return server.NewClient(resolved), nil
}
