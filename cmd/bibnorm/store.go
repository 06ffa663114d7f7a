// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openpress/bibnorm/internal/bib"
	"github.com/openpress/bibnorm/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage saved bibliographies",
	Long: `Store manages the local SQLite bibliography database that parse --save
and merge --save write into. Use subcommands to list saved sources,
show a source's entries, or delete a source.`,
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved bibliography sources",
	RunE:  runStoreList,
}

func runStoreList(cmd *cobra.Command, args []string) error {
	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	infos, err := s.ListBibliographies(context.Background())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No saved bibliographies.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-8s  %s\n", "Source", "Entries", "Saved")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for _, info := range infos {
		fmt.Fprintf(os.Stdout, "%-30s  %-8d  %s\n", info.Source, info.Entries, info.SavedAt)
	}
	return nil
}

// --- show subcommand ---

var storeShowCmd = &cobra.Command{
	Use:   "show <source>",
	Short: "Print a saved bibliography as CSL-YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreShow,
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.LoadBibliography(context.Background(), args[0])
	if err != nil {
		return err
	}
	return bib.FormatCSL(entries, os.Stdout)
}

// --- delete subcommand ---

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <source>",
	Short: "Delete a saved bibliography source",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteBibliography(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %q.\n", args[0])
	return nil
}

func init() {
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeShowCmd)
	storeCmd.AddCommand(storeDeleteCmd)

	rootCmd.AddCommand(storeCmd)
}
