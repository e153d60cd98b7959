// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package web serves the decoder, analysis and verification as a local JSON
// API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dominikschlosser/qsign-inspect/internal/analysis"
	"github.com/dominikschlosser/qsign-inspect/internal/format"
	"github.com/dominikschlosser/qsign-inspect/internal/output"
	"github.com/dominikschlosser/qsign-inspect/internal/token"
	"github.com/dominikschlosser/qsign-inspect/internal/verify"
)

const maxRequestBody = 1 << 20 // 1MB

const shutdownTimeout = 5 * time.Second

// ListenAndServe starts the HTTP server on the given address and shuts it
// down once ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return Serve(ctx, ln, log)
}

// Serve runs the API on ln until ctx is cancelled. In-flight requests get
// shutdownTimeout to finish.
func Serve(ctx context.Context, ln net.Listener, log *zap.Logger) error {
	srv := &http.Server{
		Handler:           NewMux(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.String("addr", ln.Addr().String()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewMux creates the HTTP handler with the API routes.
func NewMux(log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/decode", handleDecode)
	mux.HandleFunc("POST /api/analyze", handleAnalyze)
	mux.HandleFunc("POST /api/verify", handleVerify)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return withRequestLog(mux, log)
}

// withRequestLog tags each request with an X-Request-ID and logs it.
func withRequestLog(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

type tokenRequest struct {
	Input string `json:"input"`
	// JWKS is a JWKS document, a single JWK or a PEM public key.
	JWKS string `json:"jwks,omitempty"`
}

// readTokenRequest parses the body and decodes its token. It writes the
// error response itself and returns ok=false on failure.
func readTokenRequest(w http.ResponseWriter, r *http.Request) (tokenRequest, *token.Token, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, nil, false
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return req, nil, false
	}

	tok, err := token.Decode(format.ExtractToken(req.Input))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return req, nil, false
	}
	return req, tok, true
}

func handleDecode(w http.ResponseWriter, r *http.Request) {
	_, tok, ok := readTokenRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, output.BuildTokenJSON(tok))
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	_, tok, ok := readTokenRequest(w, r)
	if !ok {
		return
	}
	report := analysis.Analyze(tok)
	writeJSON(w, http.StatusOK, output.BuildReportJSON("api", report, analysis.BuildPlan(report)))
}

func handleVerify(w http.ResponseWriter, r *http.Request) {
	req, tok, ok := readTokenRequest(w, r)
	if !ok {
		return
	}
	if req.JWKS == "" {
		writeError(w, http.StatusBadRequest, "jwks is required")
		return
	}
	keys, err := verify.ParseKeys([]byte(req.JWKS))
	if err != nil && !errors.Is(err, verify.ErrNoKeys) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("parsing keys: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, verify.Verify(tok, keys))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
