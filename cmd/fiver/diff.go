package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fiver/delta"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff NAME VERSION",
		Short: "Summarise the operation stream that produced a version",
		Long: `diff prints the Copy/Insert mix recorded for VERSION without
reconstructing the file's full byte content.`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	name := args[0]
	version, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[1], err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	baseSize, stream, err := store.LoadStream(name, uint32(version))
	if err != nil {
		return fmt.Errorf("loading version %d of %s: %w", version, name, err)
	}

	var copyBytes, insertBytes, copyOps, insertOps uint32
	for _, op := range stream.Ops {
		switch op.Type {
		case delta.OpCopy:
			copyBytes += op.Length
			copyOps++
		case delta.OpInsert, delta.OpReplace:
			insertBytes += op.Length
			insertOps++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s v%d: base=%dB target=%dB\n", name, version, baseSize, stream.TargetSize)
	fmt.Fprintf(out, "  copy:   %d ops, %d bytes\n", copyOps, copyBytes)
	fmt.Fprintf(out, "  insert: %d ops, %d bytes\n", insertOps, insertBytes)
	return nil
}
