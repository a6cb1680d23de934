package auth

import (
	"net/http"
	"strings"
)

// BearerToken extracts the raw token from an "Authorization: Bearer" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// HandshakeToken finds the credential on a realtime handshake: the
// Authorization header, a "token" header, or a "token" query parameter.
func HandshakeToken(r *http.Request) string {
	if token, ok := BearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	if token := r.Header.Get("token"); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}
