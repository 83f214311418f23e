package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	helper "github.com/AlwaysKim-03/Orderland_Ordering_Backend/helper"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/realtime"
)

// Context keys to store user information
type contextKey string

const (
	EmailKey     contextKey = "email"
	FirstNameKey contextKey = "first_name"
	LastNameKey  contextKey = "last_name"
	StoreIdKey   contextKey = "store_id"
	UidKey       contextKey = "uid"
)

// Authentication middleware for Gorilla Mux
func Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientToken := r.Header.Get("Authorization")
		if clientToken == "" {
			http.Error(w, "No Authorization header provided", http.StatusUnauthorized)
			return
		}

		// Token format should be "Bearer <token>"
		tokenParts := strings.Split(clientToken, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization format", http.StatusUnauthorized)
			return
		}

		tokenString := tokenParts[1]
		claims, err := helper.ValidateToken(tokenString)
		if err != "" {
			http.Error(w, err, http.StatusUnauthorized)
			return
		}

		// Store user details in the request context
		ctx := context.WithValue(r.Context(), EmailKey, claims.Email)
		ctx = context.WithValue(ctx, FirstNameKey, claims.FirstName)
		ctx = context.WithValue(ctx, LastNameKey, claims.LastName)
		ctx = context.WithValue(ctx, StoreIdKey, claims.StoreId)
		ctx = context.WithValue(ctx, UidKey, claims.Uid)

		// Pass modified request with context to the next handler
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountGate re-checks account validity on every protected request: the
// session record must still exist and be unexpired, and the backing account
// document must be active and approved. A token that is still
// cryptographically valid does not survive a deactivated or unapproved
// account.
func AccountGate(gate *realtime.SessionGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _, _, _, uid := GetUserFromContext(r)
			if uid == "" {
				http.Error(w, "No user in request context", http.StatusUnauthorized)
				return
			}

			if err := gate.Authorize(r.Context(), uid); err != nil {
				switch {
				case errors.Is(err, realtime.ErrRegistrationInProgress):
					http.Error(w, "Registration in progress", http.StatusUnauthorized)
				case errors.Is(err, realtime.ErrSessionExpired):
					http.Error(w, "Session expired, please log in again", http.StatusUnauthorized)
				case errors.Is(err, realtime.ErrAccountInvalid):
					http.Error(w, "Account is no longer active or approved", http.StatusUnauthorized)
				default:
					http.Error(w, "Authorization failed", http.StatusUnauthorized)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext retrieves user data from the request context
func GetUserFromContext(r *http.Request) (email, firstName, lastName, storeId, uid string) {
	email, _ = r.Context().Value(EmailKey).(string)
	firstName, _ = r.Context().Value(FirstNameKey).(string)
	lastName, _ = r.Context().Value(LastNameKey).(string)
	storeId, _ = r.Context().Value(StoreIdKey).(string)
	uid, _ = r.Context().Value(UidKey).(string)
	return
}
