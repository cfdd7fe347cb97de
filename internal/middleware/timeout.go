// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Timeout bounds every request to the given duration. When the handler has
// not started writing by then, the client gets 503: a JSON body for /api/
// paths and plain text otherwise. Writes after the deadline are discarded,
// and headers the handler set but never sent do not reach the 503.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			panicked := make(chan any, 1)
			tw := newTimeoutWriter(w)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicked:
				// Re-raise on the serving goroutine so chi's Recoverer sees it.
				panic(p)
			case <-done:
				// A handler that gave up on ctx.Done without writing still
				// owes the client a timeout response.
				if ctx.Err() == context.DeadlineExceeded {
					tw.writeTimeout(r)
				}
			case <-ctx.Done():
				tw.writeTimeout(r)
			}
		})
	}
}

// timeoutWriter buffers response headers in its own map and drops late
// writes. The handler goroutine only ever touches h; the real header map
// is written under mu, either when the handler sends its status or when
// the timeout response goes out.
type timeoutWriter struct {
	w           http.ResponseWriter
	h           http.Header
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, h: make(http.Header)}
}

// writeTimeout sends 503 unless the handler already started its response.
func (tw *timeoutWriter) writeTimeout(r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.timedOut = true
	if tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	if strings.HasPrefix(r.URL.Path, "/api/") {
		tw.w.Header().Set("Content-Type", "application/json")
		tw.w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = tw.w.Write([]byte(`{"success":false,"error":"Request timeout"}`))
		return
	}
	tw.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	tw.w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = tw.w.Write([]byte("Request timeout"))
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}

// writeHeaderLocked copies the buffered headers and sends the status.
func (tw *timeoutWriter) writeHeaderLocked(code int) {
	tw.wroteHeader = true
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = append([]string(nil), vv...)
	}
	tw.w.WriteHeader(code)
}
