// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate <annotated-file>",
	Short: "Check an annotated document against its citation list",
	Long: `Validate reads an annotated document and its citation list (--citations,
a YAML file, or --db, a SQLite citation store) and reports inconsistencies:
markers without a citation, citations never referenced, and gaps in the
citation numbering. The exit status is non-zero when any check fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading annotated document: %w", err)
	}

	citationsPath, _ := cmd.Flags().GetString("citations")
	var fileArgs []string
	if citationsPath != "" {
		fileArgs = []string{citationsPath}
	}
	citations, err := loadCitations(cmd, fileArgs)
	if err != nil {
		return err
	}

	reg := registry.New()
	reg.AddAll(citations)

	refOK, refErrs := reg.Validate(string(text))
	seqOK, seqErrs := reg.ValidateSequence()

	for _, e := range append(refErrs, seqErrs...) {
		fmt.Fprintln(os.Stderr, "error:", e)
	}

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		stats := reg.Stats()
		fmt.Fprintf(os.Stdout, "citations: %d total, %d with standard, %d with clause, %d with URL, %d distinct standards\n",
			stats.Total, stats.WithStandardID, stats.WithClauseRef, stats.WithURL, stats.DistinctStandards)
	}

	if !refOK || !seqOK {
		return fmt.Errorf("%d validation error(s)", len(refErrs)+len(seqErrs))
	}
	fmt.Fprintln(os.Stdout, "Citations are consistent.")
	return nil
}

func init() {
	validateCmd.Flags().String("citations", "", "YAML file with the citation list")
	validateCmd.Flags().String("db", "", "load citations from this SQLite database")
	validateCmd.Flags().Bool("stats", false, "print citation statistics")

	rootCmd.AddCommand(validateCmd)
}
