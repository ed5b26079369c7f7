package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cctk-dev/cctk/internal/coverage"
	"github.com/cctk-dev/cctk/internal/transcript"
)

func verifyCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "verify <file.jsonl>...",
		Short: "Check transcripts for unparseable lines and uncaptured fields",
		Long: `Parses each transcript and round-trips every entry, reporting lines
that fail to parse and raw fields the typed model loses. Exits non-zero
when any problem is found, which makes it usable as a schema-drift
canary in CI.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			totalErrors := 0
			totalGaps := 0

			for _, file := range args {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}

				res := transcript.ParseWithRaw(string(content))

				for _, pe := range res.Errors {
					totalErrors++
					if !quiet {
						fmt.Fprintf(os.Stderr, "%s:%d: %v\n", file, pe.Line, pe.Err)
					}
				}

				for _, re := range res.Entries {
					missing, err := coverage.Missing([]byte(re.Raw), re.Entry)
					if err != nil {
						totalErrors++
						if !quiet {
							fmt.Fprintf(os.Stderr, "%s:%d: coverage: %v\n", file, re.Line, err)
						}
						continue
					}
					for _, path := range missing {
						totalGaps++
						if !quiet {
							fmt.Fprintf(os.Stderr, "%s:%d: uncaptured field: %s\n", file, re.Line, path)
						}
					}
				}
			}

			if totalErrors > 0 || totalGaps > 0 {
				return fmt.Errorf("%d unparseable lines, %d uncaptured fields", totalErrors, totalGaps)
			}

			if !quiet {
				fmt.Println("OK")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress diagnostics, report via exit code only")

	return cmd
}
