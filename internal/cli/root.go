// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for graphdoc.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphdoc/graphdoc/internal/template"
)

// Global flags
var (
	cfgFile string
	output  string
	format  string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "graphdoc",
	Short: "Deployment-aware OpenAPI document server",
	Long: `graphdoc serves the update graph API description, customized for one
deployment: every route is prefixed with the deployment's path prefix and
the graph route is extended with the deployment's mandatory query
parameters.

The canonical document template is built into the binary; the served
document is derived from it on every request.

Example:
  graphdoc serve                       # Serve the customized document
  graphdoc print                       # Print what would be served
  graphdoc check                       # Validate template and customization
  graphdoc init --path-prefix /api     # Initialize a new config file`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: graphdoc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file path (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: json, yaml (default: json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// GetOutput returns the output file path from the flag.
func GetOutput() string {
	return output
}

// GetFormat returns the output format from the flag.
func GetFormat() string {
	return format
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return verbose
}

// IsQuiet returns whether quiet mode is enabled.
func IsQuiet() bool {
	return quiet
}

// loadStore returns the canonical document source: the template built into
// the binary, or the file at path when one is given.
func loadStore(path string) (*template.Store, error) {
	if path == "" {
		return template.Embedded(), nil
	}
	return template.FromFile(path)
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
