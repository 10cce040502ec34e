package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <identifier>",
	Short: "Print the metadata record for a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	id, err := snapshot.ParseKey(args[0])
	if err != nil {
		return err
	}

	orch, _, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	m, err := orch.GetMetadata(cmd.Context(), id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
