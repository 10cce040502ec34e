package main

import (
	"github.com/spf13/cobra"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <identifier>",
	Short: "Delete a snapshot and its metadata record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := snapshot.ParseKey(args[0])
	if err != nil {
		return err
	}

	orch, _, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	return orch.Delete(cmd.Context(), id)
}
