package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var storeMetadata []string

var storeCmd = &cobra.Command{
	Use:   "store <table> [table...]",
	Short: "Snapshot the given tables to the configured storage backend",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStore,
}

func init() {
	storeCmd.Flags().StringArrayVarP(&storeMetadata, "metadata", "m", nil,
		"user metadata as key=value, repeatable")
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	userMeta, err := parseMetadataFlags(storeMetadata)
	if err != nil {
		return err
	}

	orch, _, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	m, err := orch.Store(cmd.Context(), args, userMeta)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(m)
}

func parseMetadataFlags(pairs []string) (map[string]any, error) {
	meta := map[string]any{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --metadata value %q, expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}
