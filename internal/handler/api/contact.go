// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/arrowedge/site/internal/contact"
)

// CaptchaResponse carries a new arithmetic challenge.
type CaptchaResponse struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
	Token    string `json:"token"`
}

// Captcha handles GET /api/captcha.
func (h *Handler) Captcha(w http.ResponseWriter, _ *http.Request) {
	h.rngMu.Lock()
	c := contact.NewChallenge(h.rng)
	h.rngMu.Unlock()

	token, ok := h.intake.NewChallengeToken(c)
	if !ok {
		WriteError(w, http.StatusServiceUnavailable, "Challenge not available", nil)
		return
	}

	WriteJSON(w, http.StatusOK, CaptchaResponse{
		Success:  true,
		Question: c.Question(),
		Token:    token,
	})
}

// SendEmail handles POST /api/send-email.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var sub contact.Submission
	if !decodeJSON(w, r, &sub) {
		return
	}

	_, err := h.intake.Submit(r.Context(), sub)
	if err == nil {
		WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
		return
	}

	var verrs contact.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		WriteBadRequest(w, "Please check the highlighted fields", verrs)
	case contact.IsChallengeError(err):
		WriteBadRequest(w, "Incorrect answer to the verification question", map[string]string{
			"captchaAnswer": "Please solve the verification question again",
		})
	default:
		h.logger.Error("contact submission failed", "error", err)
		WriteInternalError(w, "Failed to send email")
	}
}
