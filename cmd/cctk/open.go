package main

import (
	"github.com/spf13/cobra"

	"github.com/cctk-dev/cctk/internal/config"
	"github.com/cctk-dev/cctk/internal/index"
	"github.com/cctk-dev/cctk/internal/open"
)

func openCmd() *cobra.Command {
	var hitChunkID int

	cmd := &cobra.Command{
		Use:   "open <sessionKey>",
		Short: "Open the original JSONL file in the editor at the hit line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenSession(db, args[0], cfg.Editor, hitChunkID)
		},
	}

	cmd.Flags().IntVar(&hitChunkID, "hit", -1, "Chunk ID to jump to")

	return cmd
}
