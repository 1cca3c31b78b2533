package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log NAME",
		Short: "List the recorded versions of a tracked file",
		Args:  cobra.ExactArgs(1),
		RunE:  runLog,
	}
}

func runLog(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	versions, err := store.Enumerate(name)
	if err != nil {
		return fmt.Errorf("listing versions of %s: %w", name, err)
	}
	if len(versions) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no versions tracked\n", name)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, v := range versions {
		meta, err := store.Metadata(name, v)
		if err != nil {
			return fmt.Errorf("reading metadata for version %d of %s: %w", v, name, err)
		}
		line := fmt.Sprintf("v%d\t%s\tops=%d\tdelta=%dB", v, formatTimestamp(meta.Timestamp), meta.OperationCount, meta.DeltaSize)
		if meta.Message != "" {
			line += "\t" + meta.Message
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// formatTimestamp renders a metadata timestamp for human display.
func formatTimestamp(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format(time.RFC3339)
}
