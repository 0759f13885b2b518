package auth

import (
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services/auth"
	"net/http"
	"strings"
)

const AUTH_TOKEN_MAX_LEN = 1024

var authTokenPrefixes = []string{"Token ", "Bearer "}

// ParseToken reads the token from an "Authorization: Token <jwt>" or
// "Authorization: Bearer <jwt>" header.
func ParseToken(r *http.Request) (token user.AuthToken, ok bool) {
	header := r.Header.Get("authorization")
	if header == "" {
		return token, false
	}
	for _, prefix := range authTokenPrefixes {
		raw, found := strings.CutPrefix(header, prefix)
		if !found {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" || len(raw) > AUTH_TOKEN_MAX_LEN {
			return token, false
		}
		return user.AuthToken(raw), true
	}
	return token, false
}

func SetAuthTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ParseToken(r)
		if ok {
			r = r.WithContext(auth.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
