// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net"
	"net/http"

	"github.com/arrowedge/site/internal/util"
)

// RealIP replaces r.RemoteAddr with the client address from forwarding
// headers, but only for requests whose TCP peer is a trusted proxy. With
// no trusted proxies the headers are ignored and RemoteAddr is untouched.
func RealIP(proxies *util.TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if proxies.Len() == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := proxies.Resolve(r); ip != util.ClientIP(r) {
				r.RemoteAddr = net.JoinHostPort(ip, "0")
			}
			next.ServeHTTP(w, r)
		})
	}
}
