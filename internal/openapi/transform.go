// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi customizes the shipped API description for one deployment.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/graphdoc/graphdoc/internal/config"
)

// GraphRoute is the route that receives deployment-mandated query parameters.
// It is fixed, not configurable.
const GraphRoute = "/graph"

// ErrRefPathItem is returned when parameter injection targets a path item
// declared by reference. Reference entries are shared definitions and are
// never mutated.
var ErrRefPathItem = errors.New("reference manipulation for paths not allowed")

// paramTemplate is the shape of every injected parameter: a required query
// parameter with a string schema. Only the name varies.
const paramTemplate = `{
    "in": "query",
    "name": "TEMPLATE",
    "required": true,
    "schema": {
        "type": "string"
    }
}`

// InjectMandatoryParams appends one required string query parameter per name
// in params to the path item at route. A route that is not declared is
// skipped without error. A path item declared by reference is left untouched
// and ErrRefPathItem is reported; the rest of the document is unaffected.
//
// Injection is not idempotent: nothing deduplicates against parameters that
// are already present, so this must only run on a document freshly derived
// from the canonical template.
func InjectMandatoryParams(paths openapi3.Paths, route string, params map[string]struct{}) error {
	item, ok := paths[route]
	if !ok || item == nil {
		return nil
	}
	if item.Ref != "" {
		return fmt.Errorf("path %s: %w", route, ErrRefPathItem)
	}

	for name := range params {
		param, err := mandatoryParam(name)
		if err != nil {
			log.Printf("skipping mandatory parameter %q: %v", name, err)
			continue
		}
		item.Parameters = append(item.Parameters, &openapi3.ParameterRef{Value: param})
	}

	return nil
}

// mandatoryParam builds one injected parameter from paramTemplate.
func mandatoryParam(name string) (*openapi3.Parameter, error) {
	var param openapi3.Parameter
	if err := json.Unmarshal([]byte(paramTemplate), &param); err != nil {
		return nil, fmt.Errorf("parse parameter template: %w", err)
	}
	if param.In != openapi3.ParameterInQuery {
		return nil, fmt.Errorf("parameter template location is %q, only query parameters may be injected", param.In)
	}
	param.Name = name
	return &param, nil
}

// RewritePaths returns a new route table with prefix prepended to every key.
// The prefix is joined by plain string concatenation; no separator is
// inserted. Path items are carried over unchanged and the input table is not
// modified.
func RewritePaths(paths openapi3.Paths, prefix string) openapi3.Paths {
	rewritten := make(openapi3.Paths, len(paths))
	for path, item := range paths {
		rewritten[prefix+path] = item
	}
	return rewritten
}

// Transformer applies one deployment's customization to working copies of
// the API description.
type Transformer struct {
	prefix      string
	params      map[string]struct{}
	title       string
	description string
}

// NewTransformer creates a Transformer from the deployment configuration.
func NewTransformer(cfg *config.Config) *Transformer {
	params := make(map[string]struct{}, len(cfg.MandatoryParams))
	for _, name := range cfg.MandatoryParams {
		params[name] = struct{}{}
	}
	return &Transformer{
		prefix:      cfg.PathPrefix,
		params:      params,
		title:       cfg.Doc.Title,
		description: cfg.Doc.Description,
	}
}

// Apply customizes doc in place: mandatory parameters are injected on the
// graph route, every route key is prefixed, and configured metadata
// overrides are set. Injection problems are logged and never fail the
// transformation. doc must be a fresh working copy, never the canonical
// template.
func (t *Transformer) Apply(doc *openapi3.T) {
	if err := InjectMandatoryParams(doc.Paths, GraphRoute, t.params); err != nil {
		log.Printf("mandatory parameters not injected: %v", err)
	}

	doc.Paths = RewritePaths(doc.Paths, t.prefix)

	if doc.Info != nil {
		if t.title != "" {
			doc.Info.Title = t.title
		}
		if t.description != "" {
			doc.Info.Description = t.description
		}
	}
}
