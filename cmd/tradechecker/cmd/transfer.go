package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trade-checker-go/internal/journal"
	"trade-checker-go/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd(opts *options) *cobra.Command {
	var out, format string

	c := &cobra.Command{
		Use:   "export",
		Short: "Write the full trade history to a file",
		Long: `Write the full trade history to a file. The default file name is
trade-history-YYYY-MM-DD.json (or .yaml). Use "-o -" for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown export format %q (want json or yaml)", format)
			}
			return opts.run(func(s *session) error {
				trades, err := s.checker.Export(cmd.Context())
				if err != nil {
					return err
				}

				path := out
				if path == "" {
					path = journal.ExportFilename(time.Now())
					if format == "yaml" {
						path = strings.TrimSuffix(path, ".json") + ".yaml"
					}
				}

				if path == "-" {
					return encodeTrades(cmd.OutOrStdout(), trades, format)
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := encodeTrades(f, trades, format); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d trades to %s\n", len(trades), path)
				return nil
			})
		},
	}

	c.Flags().StringVarP(&out, "output", "o", "", "output file")
	c.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	return c
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the trade history with the contents of an export file",
		Long: `Replace the whole trade history with the records in a previously exported
JSON or YAML file. Existing trades are discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readImportFile(args[0])
			if err != nil {
				return err
			}
			return opts.run(func(s *session) error {
				n, err := s.checker.Import(cmd.Context(), data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Data imported successfully! (%d trades)\n", n)
				return nil
			})
		},
	}
}

func encodeTrades(w io.Writer, trades []models.TradeRecord, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(trades); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return writeJSON(w, trades)
}

// readImportFile returns the file as JSON, converting YAML exports.
func readImportFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// only a YAML sequence is an export; empty, null and mapping documents are rejected
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", journal.ErrMalformedImport, err)
		}
		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
			return nil, journal.ErrMalformedImport
		}
		trades := []models.TradeRecord{}
		if err := doc.Content[0].Decode(&trades); err != nil {
			return nil, fmt.Errorf("%w: %v", journal.ErrMalformedImport, err)
		}
		return json.Marshal(trades)
	default:
		return data, nil
	}
}
