// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Writer handles writing API documents to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON output (default: 2 spaces)
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{
		Indent: 2,
	}
}

// WriteJSON writes a document as JSON to the given writer.
func (w *Writer) WriteJSON(doc *openapi3.T, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", w.Indent))

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteYAML writes a document as YAML to the given writer. Documents carry
// JSON tags and custom marshalers, so the YAML form is produced from the
// JSON form.
func (w *Writer) WriteYAML(doc *openapi3.T, out io.Writer) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(tree); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// WriteFile writes a document to a file.
// The format is determined by the format parameter ("yaml" or "json").
// If format is empty, it is inferred from the file extension.
func (w *Writer) WriteFile(doc *openapi3.T, path string, format string) error {
	// Infer format from extension if not specified
	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".yaml", ".yml":
			format = "yaml"
		case ".json":
			format = "json"
		default:
			format = "json" // Default to the wire format
		}
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Create file
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Write content
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return w.WriteYAML(doc, file)
	case "json":
		return w.WriteJSON(doc, file)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ToYAML returns the YAML representation of a document as a string.
func (w *Writer) ToYAML(doc *openapi3.T) (string, error) {
	var buf strings.Builder
	if err := w.WriteYAML(doc, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToJSON returns the JSON representation of a document as a string.
func (w *Writer) ToJSON(doc *openapi3.T) (string, error) {
	var buf strings.Builder
	if err := w.WriteJSON(doc, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
