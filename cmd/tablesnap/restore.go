package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/shardbase/tablesnap/internal/snapshot"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <identifier>",
	Short: "Restore a snapshot into the database",
	Long: `Restore loads the snapshot named by its identifier key, e.g.
"table_a-->table_b.20160201-000000", back into the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	id, err := snapshot.ParseKey(args[0])
	if err != nil {
		return err
	}

	orch, _, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	m, err := orch.Restore(cmd.Context(), id)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(m)
}
