// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpress/bibnorm/internal/bbl"
	"github.com/openpress/bibnorm/internal/bib"
	"github.com/openpress/bibnorm/internal/latex"
	"github.com/openpress/bibnorm/internal/store"
	"github.com/openpress/bibnorm/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a thebibliography block into structured entries",
	Long: `Parse runs the full normalization pipeline on a .bbl file (or stdin):
macro extraction, expansion, accent conversion, and bibliography
parsing. Entries are emitted as CSL-YAML by default, or JSON with
--json, or rendered citation HTML with --html.

A BibLaTeX auxiliary file contains no inline entries and yields an
empty result; this is reported on stderr so a human reviewer can
recover the citations from the .bib source instead.

With --save the parsed list is stored in the bibliography database
under the given source name for later merging.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readInput(args)
	if err != nil {
		return err
	}

	raws := bbl.ExpandAndParse(string(source))
	if len(raws) == 0 {
		fmt.Fprintln(os.Stderr, "no parseable entries found (BibLaTeX auxiliary files are not supported)")
	}

	entries := make([]types.Bibentry, 0, len(raws))
	for _, raw := range raws {
		if latex.ContainsStrayBackslashOutsideMath(raw.Text) {
			fmt.Fprintf(os.Stderr, "warning: entry %q still contains LaTeX commands\n", raw.Label)
		}
		entries = append(entries, bib.FromRaw(raw))
	}

	if saveAs, _ := cmd.Flags().GetString("save"); saveAs != "" {
		s, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveBibliography(context.Background(), saveAs, entries); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %d entries under %q\n", len(entries), saveAs)
	}

	return writeEntries(cmd, entries)
}

// writeEntries emits an entry list in the format the flags select.
func writeEntries(cmd *cobra.Command, entries []types.Bibentry) error {
	if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
		cfg := formatConfig()
		for _, e := range entries {
			fmt.Fprintln(os.Stdout, bib.FormattedHTML(e, cfg))
		}
		return nil
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return bib.FormatCSL(entries, os.Stdout)
}

func init() {
	parseCmd.Flags().Bool("json", false, "output entries as JSON instead of CSL-YAML")
	parseCmd.Flags().Bool("html", false, "output rendered citation HTML, one entry per line")
	parseCmd.Flags().String("save", "", "store the parsed list under this source name")

	rootCmd.AddCommand(parseCmd)
}
