// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/format"
	"github.com/pdiddy/citation-engine/internal/registry"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var formatCmd = &cobra.Command{
	Use:   "format [citations-file]",
	Short: "Render a citation list as a formatted reference list",
	Long: `Format reads a YAML citation list (or a SQLite citation store via --db)
and prints the reference list in the selected bibliography style.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	citations, err := loadCitations(cmd, args)
	if err != nil {
		return err
	}

	style, _ := cmd.Flags().GetString("style")
	f, err := format.Get(style)
	if err != nil {
		return err
	}

	refs := f.FormatReferenceList(citations)
	if refs == "" {
		fmt.Fprintln(os.Stderr, "No citations to format.")
		return nil
	}
	fmt.Fprintln(os.Stdout, refs)
	return nil
}

// loadCitations reads citations from a YAML file argument or --db.
func loadCitations(cmd *cobra.Command, args []string) ([]types.Citation, error) {
	dbPath, _ := cmd.Flags().GetString("db")

	switch {
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading citations: %w", err)
		}
		var citations []types.Citation
		if err := yaml.Unmarshal(data, &citations); err != nil {
			return nil, fmt.Errorf("parsing citations: %w", err)
		}
		return citations, nil

	case dbPath != "":
		store, err := registry.NewStore(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(context.Background())

	default:
		return nil, fmt.Errorf("no citations: provide a citations file or --db")
	}
}

func init() {
	formatCmd.Flags().String("style", types.DefaultStyle, "bibliography style: iec, ieee, or apa")
	formatCmd.Flags().String("db", "", "load citations from this SQLite database")

	rootCmd.AddCommand(formatCmd)
}
