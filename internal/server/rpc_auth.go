package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// requireToken rejects requests whose bearer token does not match the
// daemon secret. Failures are answered with a JSON-RPC error body.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(s.secret, r.Header.Get("Authorization")) {
			s.log.Warning("server: rejected %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validToken(secret, header string) bool {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if secret == "" || !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"error":   map[string]any{"code": -32600, "message": "Unauthorized"},
		"id":      nil,
	})
}
