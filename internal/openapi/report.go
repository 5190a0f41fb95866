// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// PathRewrite records one route key change.
type PathRewrite struct {
	From string
	To   string
}

// Report describes what a Transformer would do to a document.
type Report struct {
	// Rewrites lists every route key change, sorted by original key.
	Rewrites []PathRewrite

	// InjectedParams lists the parameter names that would be added to the
	// graph route, sorted.
	InjectedParams []string

	// GraphRouteFound reports whether the document declares the graph route.
	GraphRouteFound bool

	// GraphRouteInjectable reports whether the graph route is a concrete
	// item rather than a reference.
	GraphRouteInjectable bool

	// Summary provides a human-readable summary of the customization.
	Summary string
}

// HasProblems reports whether the customization cannot be applied as
// configured. A graph route declared by reference is the one hard problem:
// parameters configured for it would be skipped at serve time.
func (r *Report) HasProblems() bool {
	return len(r.InjectedParams) > 0 && r.GraphRouteFound && !r.GraphRouteInjectable
}

// Describe reports the customization Apply would perform on doc. The
// document is not modified.
func (t *Transformer) Describe(doc *openapi3.T) *Report {
	report := &Report{
		Rewrites:       []PathRewrite{},
		InjectedParams: []string{},
	}

	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		report.Rewrites = append(report.Rewrites, PathRewrite{
			From: path,
			To:   t.prefix + path,
		})
	}

	if item, ok := doc.Paths[GraphRoute]; ok && item != nil {
		report.GraphRouteFound = true
		report.GraphRouteInjectable = item.Ref == ""
	}

	if report.GraphRouteFound {
		for name := range t.params {
			report.InjectedParams = append(report.InjectedParams, name)
		}
		sort.Strings(report.InjectedParams)
	}

	report.Summary = t.generateSummary(report)

	return report
}

// generateSummary creates a one-line description of the customization.
func (t *Transformer) generateSummary(report *Report) string {
	var parts []string

	if t.prefix != "" {
		parts = append(parts, fmt.Sprintf("%d route(s) prefixed with %q", len(report.Rewrites), t.prefix))
	}
	if len(report.InjectedParams) > 0 {
		parts = append(parts, fmt.Sprintf("%d mandatory parameter(s) on %s", len(report.InjectedParams), GraphRoute))
	}
	if len(t.params) > 0 && !report.GraphRouteFound {
		parts = append(parts, fmt.Sprintf("%s not declared, mandatory parameters have no effect", GraphRoute))
	}
	if report.GraphRouteFound && !report.GraphRouteInjectable {
		parts = append(parts, fmt.Sprintf("%s is a reference and cannot take parameters", GraphRoute))
	}

	if len(parts) == 0 {
		return "no customization configured"
	}

	return strings.Join(parts, ", ")
}

// FormatReport returns a formatted string representation of the report.
func FormatReport(report *Report) string {
	var sb strings.Builder

	sb.WriteString("=== Deployment Customization ===\n\n")
	sb.WriteString(report.Summary)
	sb.WriteString("\n")

	rewritten := false
	for _, rw := range report.Rewrites {
		if rw.From != rw.To {
			rewritten = true
			break
		}
	}

	if rewritten {
		sb.WriteString("\n--- Route Rewrites ---\n")
		for _, rw := range report.Rewrites {
			sb.WriteString(fmt.Sprintf("~ %s -> %s\n", rw.From, rw.To))
		}
	}

	if len(report.InjectedParams) > 0 {
		sb.WriteString(fmt.Sprintf("\n--- Mandatory Parameters (%s) ---\n", GraphRoute))
		for _, name := range report.InjectedParams {
			sb.WriteString(fmt.Sprintf("+ %s (query, required, string)\n", name))
		}
	}

	return sb.String()
}
