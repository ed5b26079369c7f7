package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cctk-dev/cctk/internal/config"
	"github.com/cctk-dev/cctk/internal/index"
)

func indexCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan and index Claude Code transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning %s\n", cfg.ClaudeRoot)

			var progress func(string)
			if verbose {
				progress = func(msg string) { fmt.Fprintln(os.Stderr, msg) }
			}

			stats, err := index.IndexAll(db, cfg.ClaudeRoot, progress)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			for _, e := range stats.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", e)
			}
			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each session as it is indexed")

	return cmd
}
