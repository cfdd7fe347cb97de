// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/arrowedge/site/internal/aidesc"
)

// AIDescription handles POST /api/ai-description.
func (h *Handler) AIDescription(w http.ResponseWriter, r *http.Request) {
	var req aidesc.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.generator.Describe(r.Context(), req)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, result)
	case errors.Is(err, aidesc.ErrInvalidRequest):
		WriteBadRequest(w, err.Error(), nil)
	case errors.Is(err, aidesc.ErrNotConfigured):
		h.logger.Warn("ai description requested but no provider configured")
		WriteInternalError(w, "AI description is not available")
	default:
		h.logger.Error("ai description failed", "error", err)
		WriteInternalError(w, "Failed to generate description")
	}
}
