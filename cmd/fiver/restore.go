package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var restoreOutput string

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore NAME VERSION",
		Short: "Reconstruct a tracked file at a given version",
		Args:  cobra.ExactArgs(2),
		RunE:  runRestore,
	}

	cmd.Flags().StringVarP(&restoreOutput, "output", "o", "", "write to this path instead of stdout")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	name := args[0]
	version, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[1], err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	data, err := store.Reconstruct(name, uint32(version))
	if err != nil {
		return fmt.Errorf("restoring %s version %d: %w", name, version, err)
	}

	if restoreOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(restoreOutput, data, 0o644) //nolint:gosec // explicit CLI destination
}
