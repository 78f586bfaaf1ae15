package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/parser"
)

var (
	inspectOutput string
	pretty        bool
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [backup.xlsx]",
		Short: "Print the rows of a backup file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	backup, err := parser.ReadBackup(inputPath)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	var jsonData []byte
	if pretty {
		jsonData, err = json.MarshalIndent(backup, "", "  ")
	} else {
		jsonData, err = json.Marshal(backup)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if inspectOutput != "" {
		if err := os.WriteFile(inspectOutput, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}
