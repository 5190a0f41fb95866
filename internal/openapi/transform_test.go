// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdoc/graphdoc/internal/config"
)

// testDoc is a minimal API description with a concrete graph route carrying
// one declared parameter, plus one unrelated route.
const testDoc = `{
  "openapi": "3.0.0",
  "info": {
    "title": "Test API",
    "version": "1.0.0"
  },
  "paths": {
    "/graph": {
      "parameters": [
        {
          "name": "channel",
          "in": "query",
          "required": true,
          "schema": {
            "type": "string"
          }
        }
      ],
      "get": {
        "summary": "Fetch the graph",
        "responses": {
          "200": {
            "description": "Success"
          }
        }
      }
    },
    "/status": {
      "get": {
        "responses": {
          "200": {
            "description": "Success"
          }
        }
      }
    }
  }
}`

func loadTestDoc(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromData([]byte(testDoc))
	require.NoError(t, err)
	return doc
}

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// paramsNamed returns the concrete parameters on item with the given name.
func paramsNamed(item *openapi3.PathItem, name string) []*openapi3.Parameter {
	var params []*openapi3.Parameter
	for _, ref := range item.Parameters {
		if ref.Value != nil && ref.Value.Name == name {
			params = append(params, ref.Value)
		}
	}
	return params
}

func TestRewritePaths(t *testing.T) {
	graph := &openapi3.PathItem{}
	status := &openapi3.PathItem{}
	paths := openapi3.Paths{
		"/graph":  graph,
		"/status": status,
	}

	rewritten := RewritePaths(paths, "/test_prefix")

	require.Len(t, rewritten, 2)
	assert.Contains(t, rewritten, "/test_prefix/graph")
	assert.Contains(t, rewritten, "/test_prefix/status")

	// Values are carried over, not copied.
	assert.Same(t, graph, rewritten["/test_prefix/graph"])
	assert.Same(t, status, rewritten["/test_prefix/status"])

	// The input table is left as it was.
	require.Len(t, paths, 2)
	assert.Contains(t, paths, "/graph")
	assert.Contains(t, paths, "/status")
}

func TestRewritePaths_EmptyPrefix(t *testing.T) {
	paths := openapi3.Paths{
		"/graph": &openapi3.PathItem{},
	}

	rewritten := RewritePaths(paths, "")

	require.Len(t, rewritten, 1)
	assert.Contains(t, rewritten, "/graph")

	// Even with an empty prefix the result is a distinct table.
	delete(rewritten, "/graph")
	assert.Contains(t, paths, "/graph")
}

func TestRewritePaths_NoSeparatorInserted(t *testing.T) {
	paths := openapi3.Paths{
		"/graph": &openapi3.PathItem{},
	}

	rewritten := RewritePaths(paths, "prefix")

	assert.Contains(t, rewritten, "prefix/graph")
}

func TestInjectMandatoryParams(t *testing.T) {
	doc := loadTestDoc(t)

	err := InjectMandatoryParams(doc.Paths, "/graph", nameSet("MARKER1", "MARKER2"))
	require.NoError(t, err)

	item := doc.Paths["/graph"]
	require.Len(t, item.Parameters, 3)

	for _, name := range []string{"MARKER1", "MARKER2"} {
		injected := paramsNamed(item, name)
		require.Len(t, injected, 1, "expected exactly one parameter named %s", name)

		param := injected[0]
		assert.Equal(t, openapi3.ParameterInQuery, param.In)
		assert.True(t, param.Required)
		require.NotNil(t, param.Schema)
		require.NotNil(t, param.Schema.Value)
		assert.Equal(t, "string", param.Schema.Value.Type)
	}

	// The declared parameter is preserved untouched.
	channel := paramsNamed(item, "channel")
	require.Len(t, channel, 1)
	assert.True(t, channel[0].Required)
}

func TestInjectMandatoryParams_NotIdempotent(t *testing.T) {
	doc := loadTestDoc(t)
	params := nameSet("MARKER1")

	require.NoError(t, InjectMandatoryParams(doc.Paths, "/graph", params))
	require.NoError(t, InjectMandatoryParams(doc.Paths, "/graph", params))

	// Injecting twice into the same working copy duplicates the parameter,
	// which is why every request derives a fresh document.
	assert.Len(t, paramsNamed(doc.Paths["/graph"], "MARKER1"), 2)
}

func TestInjectMandatoryParams_AbsentRoute(t *testing.T) {
	doc := loadTestDoc(t)
	delete(doc.Paths, "/graph")

	err := InjectMandatoryParams(doc.Paths, "/graph", nameSet("MARKER1"))

	assert.NoError(t, err)
	require.Len(t, doc.Paths, 1)
	assert.Contains(t, doc.Paths, "/status")
}

func TestInjectMandatoryParams_RefPathItem(t *testing.T) {
	paths := openapi3.Paths{
		"/graph": &openapi3.PathItem{Ref: "#/components/pathItems/graph"},
	}

	err := InjectMandatoryParams(paths, "/graph", nameSet("MARKER1"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefPathItem)
	assert.Empty(t, paths["/graph"].Parameters)
}

func TestInjectMandatoryParams_EmptySet(t *testing.T) {
	doc := loadTestDoc(t)

	err := InjectMandatoryParams(doc.Paths, "/graph", nil)

	assert.NoError(t, err)
	assert.Len(t, doc.Paths["/graph"].Parameters, 1)
}

func TestTransformer_Apply(t *testing.T) {
	cfg := config.Default()
	cfg.PathPrefix = "/test_prefix"
	cfg.MandatoryParams = []string{"MARKER1", "MARKER2"}

	doc := loadTestDoc(t)
	NewTransformer(cfg).Apply(doc)

	require.Len(t, doc.Paths, 2)
	require.Contains(t, doc.Paths, "/test_prefix/graph")
	assert.Contains(t, doc.Paths, "/test_prefix/status")

	item := doc.Paths["/test_prefix/graph"]
	assert.Len(t, paramsNamed(item, "MARKER1"), 1)
	assert.Len(t, paramsNamed(item, "MARKER2"), 1)
	assert.Len(t, paramsNamed(item, "channel"), 1)

	// Untouched metadata survives the transformation.
	require.NotNil(t, doc.Info)
	assert.Equal(t, "Test API", doc.Info.Title)
}

func TestTransformer_Apply_NoCustomization(t *testing.T) {
	doc := loadTestDoc(t)
	NewTransformer(config.Default()).Apply(doc)

	require.Len(t, doc.Paths, 2)
	assert.Contains(t, doc.Paths, "/graph")
	assert.Contains(t, doc.Paths, "/status")
	assert.Len(t, doc.Paths["/graph"].Parameters, 1)
}

func TestTransformer_Apply_DocOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Doc.Title = "Deployment Graph API"
	cfg.Doc.Description = "Graph API for one deployment"

	doc := loadTestDoc(t)
	NewTransformer(cfg).Apply(doc)

	require.NotNil(t, doc.Info)
	assert.Equal(t, "Deployment Graph API", doc.Info.Title)
	assert.Equal(t, "Graph API for one deployment", doc.Info.Description)
}

func TestTransformer_Apply_RefGraphRoute(t *testing.T) {
	doc := loadTestDoc(t)
	doc.Paths["/graph"] = &openapi3.PathItem{Ref: "#/components/pathItems/graph"}

	cfg := config.Default()
	cfg.PathPrefix = "/p"
	cfg.MandatoryParams = []string{"MARKER1"}

	// The reference entry is skipped but the rest of the pipeline runs.
	NewTransformer(cfg).Apply(doc)

	require.Contains(t, doc.Paths, "/p/graph")
	assert.Empty(t, doc.Paths["/p/graph"].Parameters)
	assert.Contains(t, doc.Paths, "/p/status")
}
