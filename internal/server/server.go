// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

// Package server serves one deployment's customized API description over
// HTTP. Every request to the document endpoint derives a fresh working copy
// from the canonical template, so no transformed state is shared or cached
// across requests.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/graphdoc/graphdoc/internal/openapi"
	"github.com/graphdoc/graphdoc/internal/template"
)

// Defaults used when Options fields are zero.
const (
	DefaultAddress   = ":8080"
	DefaultMountPath = "/openapi"
)

// Options configures the HTTP server.
// Timeouts are conservative defaults suitable for a small metadata service.
type Options struct {
	Addr            string
	MountPath       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          *log.Logger
	EnableMetrics   bool
}

// Server hosts the document endpoint plus health and metrics endpoints.
type Server struct {
	http        *http.Server
	store       *template.Store
	transformer *openapi.Transformer
	metrics     *metrics
	logger      *log.Logger
	opts        Options
}

// New constructs a server around the given template store and transformer.
// The server does not start listening until Start is called.
func New(store *template.Store, transformer *openapi.Transformer, opts Options) *Server {
	if store == nil {
		panic("server.New: store is nil")
	}
	if transformer == nil {
		panic("server.New: transformer is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.MountPath == "" {
		opts.MountPath = DefaultMountPath
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 15 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		store:       store,
		transformer: transformer,
		metrics:     newMetrics(),
		logger:      opts.Logger,
		opts:        opts,
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      nil, // set below, the middleware needs s
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
			ErrorLog:     opts.Logger,
		},
	}

	// Routes
	mux.Handle("GET "+opts.MountPath, s.instrument(opts.MountPath, http.HandlerFunc(s.handleDocument)))
	mux.Handle("GET /livez", s.instrument("/livez", http.HandlerFunc(s.handleLivez)))
	mux.Handle("GET /readyz", s.instrument("/readyz", http.HandlerFunc(s.handleReadyz)))
	if opts.EnableMetrics {
		mux.Handle("GET /metrics", s.metrics.handler())
	}

	s.http.Handler = s.withLogging(mux)

	return s
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start listens and serves until Shutdown is called or the listener fails.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.Printf("serving API description on %s%s", s.opts.Addr, s.opts.MountPath)
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting up to ShutdownTimeout
// for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.opts.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}
