// Package listflags holds flags shared by list commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds a shared --all flag to list commands. List commands hide
// finished records unless it is set.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("all", false, "Include completed records")
		return
	}

	cmd.Flags().BoolVar(target, "all", false, "Include completed records")
}
