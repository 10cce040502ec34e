package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshot identifiers",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	orch, _, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	ids, err := orch.List(cmd.Context())
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Println(id.String())
	}
	return nil
}
