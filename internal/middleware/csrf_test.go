// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	tests := []struct {
		name  string
		isDev bool
		extra []string
		want  []string
	}{
		{name: "production", isDev: false, want: nil},
		{name: "development", isDev: true, want: []string{"localhost:8080", "127.0.0.1:8080"}},
		{
			name:  "extra origins reduced to hosts",
			isDev: false,
			extra: []string{"https://arrowedge.in/", "preview.arrowedge.in", " "},
			want:  []string{"arrowedge.in", "preview.arrowedge.in"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCSRFConfig(testAuthKey, tt.isDev, tt.extra...)
			if len(cfg.AuthKey) != 32 {
				t.Errorf("AuthKey length = %d, want 32", len(cfg.AuthKey))
			}
			if len(cfg.TrustedOrigins) != len(tt.want) {
				t.Fatalf("TrustedOrigins = %v, want %v", cfg.TrustedOrigins, tt.want)
			}
			for i := range tt.want {
				if cfg.TrustedOrigins[i] != tt.want[i] {
					t.Errorf("TrustedOrigins[%d] = %q, want %q", i, cfg.TrustedOrigins[i], tt.want[i])
				}
			}
		})
	}
}

func TestOriginHost(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://arrowedge.in", "arrowedge.in"},
		{"http://localhost:3000/", "localhost:3000"},
		{"example.com/", "example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := originHost(tt.in); got != tt.want {
			t.Errorf("originHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSRFAllowsSafeAndSameOriginRequests(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, false))(okHandler())

	get := httptest.NewRequest(http.MethodGet, "/api/captcha", nil)
	get.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, get)
	if rec.Code != http.StatusOK {
		t.Errorf("cross-site GET status = %d, want 200", rec.Code)
	}

	post := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader("{}"))
	post.Header.Set("Sec-Fetch-Site", "same-origin")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, post)
	if rec.Code != http.StatusOK {
		t.Errorf("same-origin POST status = %d, want 200", rec.Code)
	}
}

func TestCSRFRejectsCrossSitePost(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, false))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader("{}"))
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCSRFCustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false)
	called := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/ai-description", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	CSRF(cfg)(okHandler()).ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusTeapot {
		t.Errorf("custom handler called = %v, status = %d", called, rec.Code)
	}
}
