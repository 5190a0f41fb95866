// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphdoc/graphdoc/internal/config"
	"github.com/graphdoc/graphdoc/internal/openapi"
)

var printTemplate string

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the customized OpenAPI document",
	Long: `Print the document the serve command would answer with, customized with
the configured path prefix and mandatory parameters.

This is useful for piping the output to other tools or for quick inspection.

Example:
  graphdoc print                      # Print the customized document as JSON
  graphdoc print -f yaml              # Print in YAML format
  graphdoc print -o openapi.json      # Write to a file
  graphdoc print | jq '.paths'        # Pipe to jq for processing`,
	RunE: runPrint,
}

func init() {
	printCmd.Flags().StringVar(&printTemplate, "template", "", "print this document instead of the built-in template")
}

func runPrint(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Output = output
	}
	if format != "" {
		cfg.Format = format
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Print configuration:")
	printVerbose("  Format: %s", cfg.Format)
	printVerbose("  Path prefix: %q", cfg.PathPrefix)

	store, err := loadStore(printTemplate)
	if err != nil {
		return err
	}

	doc, err := store.Load()
	if err != nil {
		return fmt.Errorf("template does not parse: %w", err)
	}

	openapi.NewTransformer(cfg).Apply(doc)

	writer := openapi.NewWriter()

	if cfg.Output != "" {
		if err := writer.WriteFile(doc, cfg.Output, cfg.Format); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		printInfo("Wrote %s", cfg.Output)
		return nil
	}

	switch cfg.Format {
	case "yaml":
		return writer.WriteYAML(doc, os.Stdout)
	default:
		return writer.WriteJSON(doc, os.Stdout)
	}
}
