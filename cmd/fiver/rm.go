package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME VERSION",
		Short: "Remove the chain's current tail version",
		Long: `rm deletes VERSION's delta and metadata records. Only the chain's
current tail may be removed, since deleting an earlier version would leave
later versions unreconstructible.`,
		Args: cobra.ExactArgs(2),
		RunE: runRm,
	}
}

func runRm(cmd *cobra.Command, args []string) error {
	name := args[0]
	version, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[1], err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	if err := store.Delete(name, uint32(version)); err != nil {
		return fmt.Errorf("removing %s version %d: %w", name, version, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s version %d\n", name, version)
	return nil
}
