// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/cite"
	"github.com/pdiddy/citation-engine/internal/registry"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <response-file>",
	Short: "Annotate an LLM response with citation markers",
	Long: `Process reads a response text file and the retrieved documents it was
generated from (--docs, a YAML list), extracts citation metadata per
document, numbers the citations, and prints the annotated response
followed by the formatted reference list.

Use --citations-out to write the citation list as YAML, or --db to
persist it to a SQLite citation store for later validation.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	response, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	docsPath, _ := cmd.Flags().GetString("docs")
	docs, err := loadDocuments(docsPath)
	if err != nil {
		return err
	}

	manager := cite.NewManager(pipelineConfigFromFlags(cmd))

	annotate, _ := cmd.Flags().GetBool("inject")
	annotated, citations := manager.ProcessResponse(string(response), docs, annotate)

	fmt.Fprintln(os.Stdout, annotated)

	refs, err := manager.FormatReferences(citations, "")
	if err != nil {
		return err
	}
	if refs != "" {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, refs)
	}

	if outPath, _ := cmd.Flags().GetString("citations-out"); outPath != "" {
		if err := writeCitations(outPath, citations); err != nil {
			return err
		}
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		store, err := registry.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(context.Background(), citations); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d citation(s) to %s\n", len(citations), dbPath)
	}

	return nil
}

// loadDocuments reads a YAML list of retrieved documents.
func loadDocuments(path string) ([]types.RetrievedDocument, error) {
	if path == "" {
		return nil, fmt.Errorf("no retrieved documents: provide --docs")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	var docs []types.RetrievedDocument
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing documents: %w", err)
	}
	return docs, nil
}

// writeCitations marshals the citation list to a YAML file.
func writeCitations(path string, citations []types.Citation) error {
	data, err := yaml.Marshal(citations)
	if err != nil {
		return fmt.Errorf("marshaling citations: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// pipelineConfigFromFlags builds the pipeline configuration, letting
// explicitly-set flags override config file values.
func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Tracker: types.TrackerConfig{
			StartIndex: viper.GetInt("tracker.start_index"),
		},
		Injection: types.InjectionConfig{
			MarkerFormat:        viper.GetString("injection.marker_format"),
			SimilarityThreshold: viper.GetFloat64("injection.similarity_threshold"),
			MinMatchLength:      viper.GetInt("injection.min_match_length"),
		},
		Style: viper.GetString("style"),
	}

	if cmd.Flags().Changed("start-index") {
		cfg.Tracker.StartIndex, _ = cmd.Flags().GetInt("start-index")
	}
	if cmd.Flags().Changed("marker-format") {
		cfg.Injection.MarkerFormat, _ = cmd.Flags().GetString("marker-format")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Injection.SimilarityThreshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("min-match-length") {
		cfg.Injection.MinMatchLength, _ = cmd.Flags().GetInt("min-match-length")
	}
	if cmd.Flags().Changed("style") {
		cfg.Style, _ = cmd.Flags().GetString("style")
	}

	return cfg
}

func init() {
	processCmd.Flags().String("docs", "", "YAML file with the retrieved documents (required)")
	processCmd.Flags().Bool("inject", true, "inject inline citation markers into the response")
	processCmd.Flags().String("style", types.DefaultStyle, "bibliography style: iec, ieee, or apa")
	processCmd.Flags().Float64("threshold", types.DefaultSimilarityThreshold, "similarity threshold for marker injection")
	processCmd.Flags().Int("min-match-length", types.DefaultMinMatchLength, "minimum normalized sentence length for similarity matching")
	processCmd.Flags().String("marker-format", types.DefaultMarkerFormat, "fmt template for inline markers")
	processCmd.Flags().Int("start-index", types.DefaultStartIndex, "first citation number assigned")
	processCmd.Flags().String("citations-out", "", "write the citation list to this YAML file")
	processCmd.Flags().String("db", "", "persist citations to this SQLite database")

	rootCmd.AddCommand(processCmd)
}
