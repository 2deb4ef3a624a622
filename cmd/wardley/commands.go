// Package main is the wardley command line tool. It runs the map analysis
// engine, the text extractor and version comparison against local files.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/config"
	"github.com/wardleyscope/core/internal/diff"
	"github.com/wardleyscope/core/internal/extract"
	"github.com/wardleyscope/core/internal/models"
	"github.com/wardleyscope/core/internal/parser"
	"gopkg.in/yaml.v3"
)

type options struct {
	configPath string
	output     string
	pretty     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "wardley",
		Short: "Analyse Wardley maps from the command line",
		Long: `wardley classifies map components by evolution and value, finds
bottlenecks, cycles and strategic clusters, and suggests next moves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output %q, use json or yaml", opts.output)
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file with analysis thresholds")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newExtractCmd(opts),
		newDiffCmd(opts),
		newGraphCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "wardley v%s\n", version)
			},
		},
	)

	return root
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <map.json|map.yaml|->",
		Short: "Analyse a map snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			snapshot, err := readSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			result := analysis.New(cfg.Analysis.Thresholds).Analyze(*snapshot)
			return write(cmd.OutOrStdout(), opts, result)
		},
	}
}

func newExtractCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <text-file|->",
		Short: "Propose components and relationships from prose",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			text := strings.TrimSpace(string(data))
			if text == "" {
				return fmt.Errorf("no text to extract from")
			}

			return write(cmd.OutOrStdout(), opts, extract.Extract(text))
		},
	}
}

func newDiffCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <previous> <current>",
		Short: "Show what changed between two map snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := readSnapshot(cmd, args[0])
			if err != nil {
				return err
			}
			current, err := readSnapshot(cmd, args[1])
			if err != nil {
				return err
			}

			return write(cmd.OutOrStdout(), opts, diff.Compare(*previous, *current))
		},
	}
}

func newGraphCmd(opts *options) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "graph <map.json|map.yaml|->",
		Short: "Render a map as nodes and edges for visualisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := readSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			var result *models.MapAnalysis
			if !plain {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				result = analysis.New(cfg.Analysis.Thresholds).Analyze(*snapshot)
			}

			return write(cmd.OutOrStdout(), opts, parser.BuildGraph(*snapshot, result))
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "skip analysis and emit positions only")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readSnapshot decodes by file extension; stdin is read as JSON.
func readSnapshot(cmd *cobra.Command, path string) (*models.Snapshot, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	snapshot, err := parser.ParseSnapshot(data, parser.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

func write(w io.Writer, opts *options, v any) error {
	if opts.output == "yaml" {
		node, err := yamlNode(v)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// yamlNode converts v through its JSON form so YAML output uses the same
// field names and order as the API.
func yamlNode(v any) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert output to yaml: %w", err)
	}
	blockStyle(&doc)
	return &doc, nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
