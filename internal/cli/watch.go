// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/graphdoc/graphdoc/internal/config"
	"github.com/graphdoc/graphdoc/internal/template"
)

var (
	watchDebounce int
	watchMatch    string
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch template files and re-check on change",
	Long: `Watch template files or directories and re-run the check pipeline when
one changes.

This is useful while editing a candidate template: every save is parsed,
validated, and described against the configured deployment customization.

Example:
  graphdoc watch                          # Watch the current directory
  graphdoc watch templates/               # Watch a specific directory
  graphdoc watch --match "**/*.json"      # Only react to JSON files
  graphdoc watch --debounce 1000          # Wait 1s before re-checking`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: 500)")
	watchCmd.Flags().StringVar(&watchMatch, "match", "", "glob pattern limiting which changed files trigger a re-check")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if watchMatch != "" {
		cfg.Watch.Match = watchMatch
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	if cfg.Watch.Match != "" {
		printVerbose("  Match: %s", cfg.Watch.Match)
	}
	printVerbose("  Paths: %s", strings.Join(paths, ", "))

	printInfo("Watching for changes in: %s", strings.Join(paths, ", "))
	printInfo("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// The timer starts drained so a bare timer.Reset arms the debounce.
	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var pending string

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !shouldRecheck(event.Name, cfg.Watch.Match) {
				continue
			}
			pending = event.Name
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError("watch error: %v", err)

		case <-timer.C:
			recheck(cfg, pending)

		case sig := <-sigCh:
			printInfo("Received %s, stopping watch", sig)
			return nil
		}
	}
}

// shouldRecheck reports whether a change to name triggers the check
// pipeline. Directories never trigger; the match pattern, when set, limits
// triggering to files it matches.
func shouldRecheck(name string, match string) bool {
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return false
	}
	if match == "" {
		return true
	}
	matched, err := doublestar.Match(match, filepath.ToSlash(name))
	if err != nil {
		printError("invalid match pattern %q: %v", match, err)
		return false
	}
	return matched
}

// recheck runs the check pipeline against the changed file. Problems are
// reported and watched for the next change, they never stop the watch.
func recheck(cfg *config.Config, path string) {
	printInfo("Change detected: %s", path)

	store, err := template.FromFile(path)
	if err != nil {
		printError("%v", err)
		return
	}

	if err := verifyTemplate(context.Background(), cfg, store); err != nil {
		printError("%v", err)
		return
	}

	printInfo("Template OK")
}
