// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpress/bibnorm/internal/bib"
	"github.com/openpress/bibnorm/internal/store"
	"github.com/openpress/bibnorm/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <a> <b>",
	Short: "Merge two bibliography lists",
	Long: `Merge concatenates two CSL-YAML entry lists, A first then B. With
--dedup entries that refer to the same work (by DOI, arXiv id, or
fuzzy title/author/year agreement) are collapsed, keeping the first
occurrence.

Arguments name CSL-YAML files; with --from-store they name saved
bibliography sources instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	fromStore, _ := cmd.Flags().GetBool("from-store")

	var a, b []types.Bibentry
	var err error
	if fromStore {
		s, serr := store.Open(storeConfig())
		if serr != nil {
			return serr
		}
		defer s.Close()
		ctx := context.Background()
		if a, err = s.LoadBibliography(ctx, args[0]); err != nil {
			return err
		}
		if b, err = s.LoadBibliography(ctx, args[1]); err != nil {
			return err
		}
	} else {
		if a, err = readCSLFile(args[0]); err != nil {
			return err
		}
		if b, err = readCSLFile(args[1]); err != nil {
			return err
		}
	}

	dedup, _ := cmd.Flags().GetBool("dedup")
	merged := bib.MergeBibentryArrays(a, b, dedup, matchConfig())
	if dedup {
		fmt.Fprintf(os.Stderr, "merged %d + %d entries into %d\n", len(a), len(b), len(merged))
	}

	if saveAs, _ := cmd.Flags().GetString("save"); saveAs != "" {
		s, serr := store.Open(storeConfig())
		if serr != nil {
			return serr
		}
		defer s.Close()
		if err := s.SaveBibliography(context.Background(), saveAs, merged); err != nil {
			return err
		}
	}

	return bib.FormatCSL(merged, os.Stdout)
}

func readCSLFile(path string) ([]types.Bibentry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := bib.ParseCSL(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

func init() {
	mergeCmd.Flags().Bool("dedup", false, "remove entries that duplicate an earlier one")
	mergeCmd.Flags().Bool("from-store", false, "treat arguments as saved source names")
	mergeCmd.Flags().String("save", "", "store the merged list under this source name")

	rootCmd.AddCommand(mergeCmd)
}
