// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpress/bibnorm/internal/latex"
)

var expandCmd = &cobra.Command{
	Use:   "expand [file]",
	Short: "Expand user-defined LaTeX macros and convert accents",
	Long: `Expand extracts the macro definitions from a LaTeX source fragment
(file or stdin), drops the bibliography-formatting directives, expands
every invocation to a fixed point, and converts accent and ligature
sequences to Unicode outside math mode. Math-mode spans pass through
byte-for-byte.

With --defs-only the extracted macro table is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	source, err := readInput(args)
	if err != nil {
		return err
	}
	text := string(source)

	defs := latex.ExtractMacroDefinitions(text)
	defs = latex.RemoveSpecialMacrosToIgnoreInBBL(defs)

	if defsOnly, _ := cmd.Flags().GetBool("defs-only"); defsOnly {
		for _, d := range defs {
			fmt.Fprintf(os.Stdout, "\\%s[%d] -> %s\n", d.Name, d.ArgCount, d.Replacement)
		}
		fmt.Fprintf(os.Stderr, "%d definitions\n", len(defs))
		return nil
	}

	expanded := latex.ExpandLatexMacros(defs, text)
	converted := latex.LatexToUTF8OutsideMathMode(expanded, false)
	fmt.Fprint(os.Stdout, converted)

	if latex.ContainsStrayBackslashOutsideMath(converted) {
		fmt.Fprintln(os.Stderr, "warning: residual LaTeX commands remain outside math mode")
	}
	return nil
}

func init() {
	expandCmd.Flags().Bool("defs-only", false, "print the extracted macro definitions instead of expanding")

	rootCmd.AddCommand(expandCmd)
}
