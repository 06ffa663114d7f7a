// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bibnorm CLI, the command
// shell around the bibliographic normalization core. Each operation is
// a subcommand: expand, parse, merge, and store. The core packages
// take their settings as explicit parameters; this shell reads them
// from the config file and flags and passes them down.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openpress/bibnorm/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the bibnorm CLI.
var rootCmd = &cobra.Command{
	Use:   "bibnorm",
	Short: "Normalize LaTeX bibliographic data",
	Long: `bibnorm transforms hand-written LaTeX bibliographic source into
structured citation data. It expands user-defined macros, converts
accent sequences to Unicode outside math mode, parses thebibliography
blocks into entries, and reconciles entry lists coming from different
citation sources by fuzzy matching.

Each transformation is a subcommand: expand, parse, and merge. Parsed
lists can be kept in a local database with --save and the store
subcommand, so lists from different sources can be merged later.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bibnorm.yaml or ~/.config/bibnorm/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "bibliography database path (default: ./bibnorm.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bibnorm")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bibnorm"))
		}
	}

	viper.SetDefault("doi_url_prefix", "https://doi.org/")
	viper.SetDefault("arxiv_url_abs_prefix", "https://arxiv.org/abs/")
	viper.SetDefault("match.surname_distance", 1)
	viper.SetDefault("match.title_distance_ratio", 0.1)
	viper.SetDefault("db_path", "bibnorm.db")

	viper.SetEnvPrefix("BIBNORM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// formatConfig assembles the URL prefixes the formatting core expects.
func formatConfig() types.FormatConfig {
	return types.FormatConfig{
		DOIURLPrefix:      viper.GetString("doi_url_prefix"),
		ArxivURLAbsPrefix: viper.GetString("arxiv_url_abs_prefix"),
	}
}

// matchConfig assembles the fuzzy-matching tolerances.
func matchConfig() types.MatchConfig {
	return types.MatchConfig{
		SurnameDistance:    viper.GetInt("match.surname_distance"),
		TitleDistanceRatio: viper.GetFloat64("match.title_distance_ratio"),
	}
}

// storeConfig resolves the database path from the flag or config file.
func storeConfig() types.StoreConfig {
	path, _ := rootCmd.PersistentFlags().GetString("db")
	if path == "" {
		path = viper.GetString("db_path")
	}
	return types.StoreConfig{DBPath: path}
}

// readInput reads the single optional file argument, or stdin when no
// argument is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
