package middleware

import (
	"context"
	"net/http"

	"aozu-ops-hub/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Identity reports who is signed in on this device.
type Identity interface {
	IsLoggedIn() bool
	UserID() string
}

// IdentityMiddleware puts the signed-in uid, if any, into the request context.
// It never rejects a request; features work signed out.
func IdentityMiddleware(identity Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid := identity.UserID(); uid != "" {
				r = r.WithContext(context.WithValue(r.Context(), UserIDKey, uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSignIn rejects requests made while nobody is signed in.
func RequireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r) == "" {
			response.Unauthorized(w, "Sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
