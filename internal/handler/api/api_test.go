// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowedge/site/internal/aidesc"
	"github.com/arrowedge/site/internal/cache"
	"github.com/arrowedge/site/internal/contact"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []contact.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e contact.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

type fakeProvider struct {
	text string
	err  error
}

func (p *fakeProvider) ID() string    { return "fake" }
func (p *fakeProvider) Model() string { return "fake-1" }
func (p *fakeProvider) Describe(context.Context, aidesc.Request) (string, error) {
	return p.text, p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testDeps struct {
	mailer   *fakeMailer
	provider aidesc.Provider
	signer   *contact.Signer
}

func newTestHandler(t *testing.T, deps testDeps) *Handler {
	t.Helper()
	if deps.mailer == nil {
		deps.mailer = &fakeMailer{}
	}
	used := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = used.Close() })

	intake := contact.NewIntake(contact.IntakeConfig{
		From:    "site@arrowedge.in",
		To:      []string{"hello@arrowedge.in"},
		Timeout: time.Second,
	}, deps.mailer, deps.signer, discardLogger())
	gen := aidesc.NewGenerator(deps.provider, used, time.Minute, time.Second, discardLogger())
	return NewHandler(intake, gen, discardLogger())
}

func postJSON(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

const validContact = `{"name":"Ada","email":"ada@example.com","phone":"","budget":"$5k","message":"Hello","services":["Branding"]}`

func TestSendEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := &fakeMailer{}
		h := newTestHandler(t, testDeps{mailer: m})

		rec := postJSON(h.SendEmail, "/api/send-email", validContact)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		require.Len(t, m.sent, 1)
		assert.Equal(t, "ada@example.com", m.sent[0].ReplyTo)
	})

	t.Run("validation errors", func(t *testing.T) {
		m := &fakeMailer{}
		h := newTestHandler(t, testDeps{mailer: m})

		rec := postJSON(h.SendEmail, "/api/send-email", `{"name":"","email":"nope","message":""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Contains(t, resp.Fields, "name")
		assert.Contains(t, resp.Fields, "email")
		assert.Contains(t, resp.Fields, "message")
		assert.Empty(t, m.sent)
	})

	t.Run("delivery failure", func(t *testing.T) {
		h := newTestHandler(t, testDeps{mailer: &fakeMailer{err: errors.New("connection refused")}})

		rec := postJSON(h.SendEmail, "/api/send-email", validContact)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Failed to send email", resp.Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newTestHandler(t, testDeps{})

		rec := postJSON(h.SendEmail, "/api/send-email", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		decodeError(t, rec)
	})

	t.Run("empty body", func(t *testing.T) {
		h := newTestHandler(t, testDeps{})

		rec := postJSON(h.SendEmail, "/api/send-email", ``)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Request body is empty", decodeError(t, rec).Error)
	})

	t.Run("body too large", func(t *testing.T) {
		h := newTestHandler(t, testDeps{})

		big := `{"message":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		rec := postJSON(h.SendEmail, "/api/send-email", big)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestCaptchaRoundTrip(t *testing.T) {
	m := &fakeMailer{}
	h := newTestHandler(t, testDeps{mailer: m, signer: contact.NewSigner("test-secret", time.Minute, nil)})

	rec := httptest.NewRecorder()
	h.Captcha(rec, httptest.NewRequest(http.MethodGet, "/api/captcha", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var captcha CaptchaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &captcha))
	require.True(t, captcha.Success)
	require.NotEmpty(t, captcha.Token)

	var a, b int
	var op string
	_, err := fmt.Sscanf(captcha.Question, "What is %d %s %d?", &a, &op, &b)
	require.NoError(t, err, "question %q", captcha.Question)
	answer := a + b
	if op == "-" {
		answer = a - b
	}

	withAnswer := func(ans string) string {
		return strings.TrimSuffix(validContact, "}") +
			`,"captchaToken":"` + captcha.Token + `","captchaAnswer":"` + ans + `"}`
	}

	rec = postJSON(h.SendEmail, "/api/send-email", withAnswer(strconv.Itoa(answer+1)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "captchaAnswer")
	assert.Empty(t, m.sent)

	rec = postJSON(h.SendEmail, "/api/send-email", withAnswer(strconv.Itoa(answer)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, m.sent, 1)
}

func TestCaptchaWithoutSigner(t *testing.T) {
	h := newTestHandler(t, testDeps{})

	rec := httptest.NewRecorder()
	h.Captcha(rec, httptest.NewRequest(http.MethodGet, "/api/captcha", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decodeError(t, rec)
}

func TestAIDescription(t *testing.T) {
	tests := []struct {
		name     string
		provider aidesc.Provider
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "success",
			provider: &fakeProvider{text: "A bold storefront."},
			body:     `{"projectTitle":"Shop","projectDescription":"An online store"}`,
			wantCode: http.StatusOK,
			wantBody: `{"description":"A bold storefront.","audioUrl":null}`,
		},
		{
			name:     "missing title",
			provider: &fakeProvider{text: "x"},
			body:     `{"projectTitle":"  "}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not configured",
			provider: nil,
			body:     `{"projectTitle":"Shop"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"error":"AI description is not available"}`,
		},
		{
			name:     "upstream failure",
			provider: &fakeProvider{err: errors.New("quota exceeded")},
			body:     `{"projectTitle":"Shop"}`,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"error":"Failed to generate description"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, testDeps{provider: tt.provider})

			rec := postJSON(h.AIDescription, "/api/ai-description", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
