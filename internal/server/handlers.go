// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// handleDocument answers with the customized API description. The document
// is parsed from the canonical template, customized, and serialized within
// the request; a failure at the parse or serialize step answers 500 with the
// failure text and leaves the server running. Injection problems never
// change the response status.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		s.logger.Printf("render document: %v", err)
		s.metrics.renderFailures.Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.transformer.Apply(doc)

	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Printf("render document: %v", err)
		s.metrics.renderFailures.Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleLivez reports process liveness.
func (s *Server) handleLivez(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports whether the canonical template still parses, which is
// the only way a document request can fail.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Load(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "template unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
