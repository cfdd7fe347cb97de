// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON endpoints used by the site's pages.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/arrowedge/site/internal/aidesc"
	"github.com/arrowedge/site/internal/contact"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 64 << 10

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	intake    *contact.Intake
	generator *aidesc.Generator
	logger    *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewHandler creates a new API handler.
func NewHandler(intake *contact.Intake, generator *aidesc.Generator, logger *slog.Logger) *Handler {
	return &Handler{
		intake:    intake,
		generator: generator,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SuccessResponse is the body of a successful write endpoint.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string, fields map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{Success: false, Error: message, Fields: fields})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, fields map[string]string) {
	WriteError(w, http.StatusBadRequest, message, fields)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, nil)
}

// decodeJSON reads a bounded JSON body into v. On failure the 400 response
// is already written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request body is empty", nil)
		default:
			WriteBadRequest(w, "Invalid JSON body", nil)
		}
		return false
	}
	return true
}
