// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphdoc/graphdoc/internal/config"
	"github.com/graphdoc/graphdoc/internal/openapi"
	"github.com/graphdoc/graphdoc/internal/server"
)

var (
	serveListen    string
	serveMount     string
	servePrefix    string
	serveParams    []string
	serveTemplate  string
	serveNoMetrics bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the customized OpenAPI document over HTTP",
	Long: `Serve the deployment's customized OpenAPI document over HTTP.

Every request derives a fresh document from the canonical template, applies
the deployment customization (path prefix, mandatory parameters on the
graph route), and answers with the result as JSON. Liveness, readiness,
and metrics endpoints are served alongside the document.

Example:
  graphdoc serve                                  # Serve with config defaults
  graphdoc serve --listen :9090                   # Serve on another port
  graphdoc serve --path-prefix /api/upgrades      # Prefix every route
  graphdoc serve --param channel --param arch     # Inject mandatory parameters`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: :8080)")
	serveCmd.Flags().StringVar(&serveMount, "mount", "", "path the document is served under (default: /openapi)")
	serveCmd.Flags().StringVar(&servePrefix, "path-prefix", "", "prefix prepended to every route in the served document")
	serveCmd.Flags().StringSliceVar(&serveParams, "param", nil, "mandatory query parameter for the graph route (repeatable)")
	serveCmd.Flags().StringVar(&serveTemplate, "template", "", "serve this document instead of the built-in template")
	serveCmd.Flags().BoolVar(&serveNoMetrics, "no-metrics", false, "disable the /metrics endpoint")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if serveMount != "" {
		cfg.Mount = serveMount
	}
	if servePrefix != "" {
		cfg.PathPrefix = servePrefix
	}
	if len(serveParams) > 0 {
		cfg.MandatoryParams = serveParams
	}
	if serveNoMetrics {
		cfg.Metrics.Enabled = false
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := loadStore(serveTemplate)
	if err != nil {
		return err
	}

	// A template that does not parse is a build or configuration defect.
	// Refuse to start instead of answering 500 to every request.
	if _, err := store.Load(); err != nil {
		return fmt.Errorf("template does not parse: %w", err)
	}

	printVerbose("Serve configuration:")
	printVerbose("  Listen: %s", cfg.Listen)
	printVerbose("  Mount: %s", cfg.Mount)
	printVerbose("  Path prefix: %q", cfg.PathPrefix)
	printVerbose("  Mandatory parameters: %s", strings.Join(cfg.MandatoryParams, ", "))
	printVerbose("  Metrics: %t", cfg.Metrics.Enabled)

	srv := server.New(store, openapi.NewTransformer(cfg), server.Options{
		Addr:            cfg.Listen,
		MountPath:       cfg.Mount,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:     time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
		EnableMetrics:   cfg.Metrics.Enabled,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	printInfo("Serving OpenAPI document on %s%s", cfg.Listen, cfg.Mount)
	printInfo("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		printInfo("Received %s, shutting down", sig)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
