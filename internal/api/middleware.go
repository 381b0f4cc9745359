package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth fails closed: no valid `token` cookie means the request never
// reaches a search or persistence call.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			respondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := s.auth.Verify(cookie.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			logrus.Errorf("Failed to load user %s: %v", claims.Email, err)
			respondError(w, http.StatusInternalServerError, "Server error")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// currentUser returns the authenticated user placed in the context by
// requireAuth.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}
