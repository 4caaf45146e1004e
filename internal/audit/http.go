package audit

import (
	"log"
	"net"
	"net/http"
	"strings"

	"condoledger/internal/auth"
)

// ClientIP extracts client ip from common headers or RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware records mutating API calls. Audit failure never fails the
// request.
func Middleware(logger Logger, errLog *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if logger == nil || r.Method == http.MethodGet ||
				r.Method == http.MethodHead || r.Method == http.MethodOptions {
				return
			}
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				return
			}
			entry := Entry{
				AssociationID: auth.AssociationIDFromContext(r.Context()),
				Actor:         auth.SubjectFromContext(r.Context()),
				Role:          string(auth.RoleFromContext(r.Context())),
				Action:        r.Method + " " + r.URL.Path,
				ResourceType:  resourceType(r.URL.Path),
				IP:            ClientIP(r),
				UserAgent:     r.UserAgent(),
			}
			if err := logger.Log(r.Context(), entry); err != nil && errLog != nil {
				errLog.Printf("audit write failed: %v", err)
			}
		})
	}
}

func resourceType(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}
