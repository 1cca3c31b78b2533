package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fiver/storage"
)

var storageRoot string

var rootCmd = &cobra.Command{
	Use:   "fiver",
	Short: "fiver is a per-file, content-dependent version store",
	Long: `fiver tracks versions of individual files as a chain of binary
deltas, computed with a rolling-hash match finder rather than storing
full copies of every version.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageRoot, "storage", "./fiver_storage",
		"root directory holding the version chain")

	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newRmCmd())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*storage.Store, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return storage.New(storage.NewConfig(storage.WithRoot(storageRoot), storage.WithLogger(logger)))
}
