package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/tasklab/derived"
	"github.com/amonks/tasklab/internal/ui"
	"github.com/spf13/cobra"
)

var deriveCmd = &cobra.Command{
	Use:   "derive <counter> [items...]",
	Short: "Compute derived values for a counter state",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDerive,
}

var (
	deriveMessage string
	deriveVisible bool
	deriveJSON    bool
)

func init() {
	rootCmd.AddCommand(deriveCmd)

	deriveCmd.Flags().StringVar(&deriveMessage, "message", "", "State message")
	deriveCmd.Flags().BoolVar(&deriveVisible, "visible", false, "Mark the state visible")
	deriveCmd.Flags().BoolVar(&deriveJSON, "json", false, "Output as JSON")
}

func parseDeriveState(args []string) (derived.State, error) {
	counter, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return derived.State{}, fmt.Errorf("invalid counter %q: must be an integer", args[0])
	}
	items := append([]string{}, args[1:]...)
	return derived.State{
		Counter:   counter,
		Message:   deriveMessage,
		IsVisible: deriveVisible,
		Items:     items,
	}, nil
}

func runDerive(cmd *cobra.Command, args []string) error {
	state, err := parseDeriveState(args)
	if err != nil {
		return err
	}
	values := derived.Derive(state)

	out := cmd.OutOrStdout()
	if deriveJSON {
		return encodeJSON(out, struct {
			State  derived.State  `json:"state"`
			Values derived.Values `json:"values"`
		}{state, values})
	}
	fmt.Fprint(out, ui.FormatTable([]string{"FIELD", "VALUE"}, [][]string{
		{"counter", strconv.Itoa(state.Counter)},
		{"even", strconv.FormatBool(values.IsEven)},
		{"prime", strconv.FormatBool(values.IsPrime)},
		{"items", strconv.Itoa(values.ItemCount)},
	}))
	return nil
}
