// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/graphdoc/graphdoc/internal/config"
)

var (
	initForce       bool
	initTitle       string
	initDescription string
	initListen      string
	initPrefix      string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new graphdoc configuration file",
	Long: `Initialize a new graphdoc configuration file in the current directory.

This command creates a graphdoc.yaml file with sensible defaults
that you can customize for your deployment.

Features:
  - Infers a document title from the go.mod module name
  - Sets up server, metrics, and watch defaults

Example:
  graphdoc init                         # Create config with defaults
  graphdoc init --path-prefix /api      # Preset the deployment path prefix
  graphdoc init --force                 # Overwrite existing config
  graphdoc init --title "My API"        # Set a custom document title`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().StringVar(&initTitle, "title", "", "document title override")
	initCmd.Flags().StringVar(&initDescription, "description", "", "document description override")
	initCmd.Flags().StringVar(&initListen, "listen", "", "listen address")
	initCmd.Flags().StringVar(&initPrefix, "path-prefix", "", "deployment path prefix")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "graphdoc.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	// Determine project root
	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	// Create config with sensible defaults
	cfg := config.Default()

	// Detect project info from go.mod
	info := detectProjectInfo(projectRoot)

	// Set document info from detection or flags
	if initTitle != "" {
		cfg.Doc.Title = initTitle
	} else if info.Title != "" {
		cfg.Doc.Title = info.Title
	}

	if initDescription != "" {
		cfg.Doc.Description = initDescription
	}

	if initListen != "" {
		cfg.Listen = initListen
	}

	if initPrefix != "" {
		cfg.PathPrefix = initPrefix
	}

	// Build YAML with a header comment
	content := buildConfigYAML(cfg)

	// Write config file
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Listen: %s", cfg.Listen)
	printVerbose("Mount: %s", cfg.Mount)
	if cfg.Doc.Title != "" {
		printVerbose("Title: %s", cfg.Doc.Title)
	}

	return nil
}

// projectInfo holds information detected from the project.
type projectInfo struct {
	Title  string
	Module string
}

// detectProjectInfo detects project information from go.mod.
func detectProjectInfo(projectRoot string) projectInfo {
	info := projectInfo{}

	goModPath := filepath.Join(projectRoot, "go.mod")
	file, err := os.Open(goModPath)
	if err != nil {
		return info
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "module ") {
			info.Module = strings.TrimPrefix(line, "module ")
			info.Module = strings.TrimSpace(info.Module)

			// Extract a title from the module path
			// e.g., "github.com/user/my-api" -> "My Api API"
			parts := strings.Split(info.Module, "/")
			if len(parts) > 0 {
				name := parts[len(parts)-1]
				name = strings.ReplaceAll(name, "-", " ")
				name = strings.ReplaceAll(name, "_", " ")
				titleCaser := cases.Title(language.English)
				info.Title = titleCaser.String(name) + " API"
			}
			break
		}
	}

	return info
}

// buildConfigYAML builds a YAML config with a header comment.
func buildConfigYAML(cfg *config.Config) string {
	// First, marshal to get the base YAML
	data, _ := yaml.Marshal(cfg)

	// Add header comment
	header := `# graphdoc configuration file
# https://github.com/graphdoc/graphdoc

`
	return header + string(data)
}
