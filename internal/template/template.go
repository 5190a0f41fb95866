// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

// Package template holds the canonical API description shipped with graphdoc.
package template

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

// document is the build-embedded API description. It is the immutable source
// for every served copy and is never handed out directly.
//
//go:embed openapi.json
var document []byte

// Raw returns a copy of the embedded document bytes.
func Raw() []byte {
	return append([]byte(nil), document...)
}

// Store holds the canonical template bytes for one process. Load parses a
// fresh working copy on every call so that concurrent requests never share a
// document value.
type Store struct {
	raw []byte
}

// Embedded returns a Store backed by the build-embedded document.
func Embedded() *Store {
	return &Store{raw: document}
}

// FromFile returns a Store backed by an operator-supplied document. The file
// is read once; later changes on disk are not picked up.
func FromFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return &Store{raw: raw}, nil
}

// NewStore returns a Store backed by the given bytes.
func NewStore(raw []byte) *Store {
	return &Store{raw: raw}
}

// Load parses the canonical bytes into a new document. Each call returns an
// independent value; mutating the result cannot affect other callers.
func (s *Store) Load() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(s.raw)
	if err != nil {
		return nil, fmt.Errorf("parse API description: %w", err)
	}
	return doc, nil
}

// Raw returns a copy of the Store's canonical bytes.
func (s *Store) Raw() []byte {
	return append([]byte(nil), s.raw...)
}
