package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var trackMessage string

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track FILE",
		Short: "Record a new version of FILE",
		Long: `track reads FILE from disk and records it as the next version of its
chain, deltified against the chain's current head (or stored verbatim if
this is the file's first tracked version).`,
		Args: cobra.ExactArgs(1),
		RunE: runTrack,
	}

	cmd.Flags().StringVarP(&trackMessage, "message", "m", "", "commit message for this version")

	return cmd
}

func runTrack(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	version, err := store.Append(path, data, trackMessage)
	if err != nil {
		return fmt.Errorf("tracking %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tracked %s as version %d\n", path, version)
	return nil
}
