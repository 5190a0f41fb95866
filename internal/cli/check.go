// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphdoc/graphdoc/internal/config"
	"github.com/graphdoc/graphdoc/internal/openapi"
	"github.com/graphdoc/graphdoc/internal/template"
)

// Exit codes for check command
const (
	ExitCodeOK         = 0 // Template valid, customization applies
	ExitCodeProblem    = 1 // Customization cannot be applied as configured
	ExitCodeCheckError = 2 // Error during analysis
)

var (
	checkTemplate string
	checkCI       bool
)

// errCustomizationProblem distinguishes an inapplicable customization from an
// analysis failure, they map to different exit codes.
var errCustomizationProblem = errors.New("customization cannot be applied as configured")

var checkCmd = &cobra.Command{
	Use:   "check [template]",
	Short: "Check the template and the deployment customization",
	Long: `Check validates the document template and reports the customization that
would be applied at serve time.

The template is parsed and fully validated, then the configured path prefix
and mandatory parameters are described against it. Full validation is a
development-time aid; the serve command only requires the template to parse.

Exit codes:
  0  Template valid, customization applies
  1  Customization cannot be applied as configured
  2  Error during analysis

Example:
  graphdoc check                      # Check the built-in template
  graphdoc check candidate.json       # Check a candidate template file
  graphdoc check --ci                 # CI mode with appropriate exit codes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkCI, "ci", false, "CI mode: use exit codes for status")
	checkCmd.Flags().StringVar(&checkTemplate, "template", "", "check this document instead of the built-in template")
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	templatePath := checkTemplate
	if len(args) > 0 {
		templatePath = args[0]
	}

	printVerbose("Check configuration:")
	printVerbose("  CI mode: %t", checkCI)
	if templatePath != "" {
		printVerbose("  Template: %s", templatePath)
	} else {
		printVerbose("  Template: built-in")
	}

	store, err := loadStore(templatePath)
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return err
	}

	err = verifyTemplate(cmd.Context(), cfg, store)
	if errors.Is(err, errCustomizationProblem) {
		printError("%v", err)
		if checkCI {
			os.Exit(ExitCodeProblem)
		}
		return err
	}
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return err
	}

	printInfo("Template OK")
	if checkCI {
		os.Exit(ExitCodeOK)
	}
	return nil
}

// verifyTemplate parses and validates the template in store, then prints the
// customization report for it. It returns errCustomizationProblem when the
// configured customization cannot be applied.
func verifyTemplate(ctx context.Context, cfg *config.Config, store *template.Store) error {
	doc, err := store.Load()
	if err != nil {
		return fmt.Errorf("template does not parse: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("template is not a valid document: %w", err)
	}

	report := openapi.NewTransformer(cfg).Describe(doc)
	printInfo("%s", openapi.FormatReport(report))

	if report.HasProblems() {
		return errCustomizationProblem
	}
	return nil
}
