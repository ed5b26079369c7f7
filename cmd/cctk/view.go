package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cctk-dev/cctk/internal/coverage"
	"github.com/cctk-dev/cctk/internal/render"
	"github.com/cctk-dev/cctk/internal/transcript"
)

func viewCmd() *cobra.Command {
	var showJSON bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "view <file.jsonl>...",
		Short: "Show a transcript as one-line entry summaries",
		Long: `Parses a transcript file line by line and prints a summary for each
entry. Lines that fail to parse are reported with their line number and
do not stop the run. With --json each entry is re-encoded and printed
with syntax highlighting. With --strict, raw fields that the typed model
does not capture are flagged per entry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			badLines := 0
			gaps := 0

			for _, file := range args {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}

				res := transcript.ParseWithRaw(string(content))
				badLines += len(res.Errors)

				for _, pe := range res.Errors {
					fmt.Fprintf(os.Stderr, "%s:%d: %v\n", file, pe.Line, pe.Err)
				}

				for _, re := range res.Entries {
					fmt.Printf("%6d  %s\n", re.Line, re.Entry.Describe())

					if showJSON {
						data, err := json.Marshal(re.Entry)
						if err != nil {
							fmt.Fprintf(os.Stderr, "%s:%d: re-encode: %v\n", file, re.Line, err)
							continue
						}
						fmt.Println(indent(render.HighlightJSON(data), "        "))
					}

					if strict {
						missing, err := coverage.Missing([]byte(re.Raw), re.Entry)
						if err != nil {
							fmt.Fprintf(os.Stderr, "%s:%d: coverage: %v\n", file, re.Line, err)
							continue
						}
						for _, path := range missing {
							fmt.Fprintf(os.Stderr, "%s:%d: uncaptured field: %s\n", file, re.Line, path)
							gaps++
						}
					}
				}
			}

			if badLines > 0 || gaps > 0 {
				return fmt.Errorf("%d unparseable lines, %d uncaptured fields", badLines, gaps)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showJSON, "json", false, "Print each entry as highlighted JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Flag raw fields the typed model does not capture")

	return cmd
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
