package main

import (
	"fmt"
	"io"
	"strings"

	internalstrings "github.com/amonks/tasklab/internal/strings"
	"github.com/spf13/cobra"
)

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// changedString returns a pointer to value when flag was set, else nil.
func changedString(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

// enumFlag lowercases and trims a priority or status flag, so "--priority HIGH"
// reaches the store as "high".
func enumFlag(value string) string {
	return internalstrings.NormalizeLowerTrimSpace(value)
}

// resolveDescriptionFromStdin reads the description from reader when it is "-".
func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}
	return strings.TrimRight(string(input), "\r\n"), nil
}
