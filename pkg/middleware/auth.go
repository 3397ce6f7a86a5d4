package middleware

import (
	"net/http"
	"strings"

	"glam-commerce/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Claims carried by the platform's access tokens. Identity is issued by the
// external auth service; this backend only verifies and reads it.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth validates the bearer JWT and stores user id, role and email in context.
func Auth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, claims, ok := parseBearer(r, secret, logger)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid or missing authorization token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, claims.Role, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates the user context when a valid token is present but
// lets anonymous requests through. Used on guest-checkout endpoints.
func OptionalAuth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, claims, ok := parseBearer(r, secret, logger); ok {
				ctx := utils.SetUserContext(r.Context(), userID, claims.Role, claims.Email)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin requires the admin role claim. Must run after Auth.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !utils.IsAdmin(r.Context()) {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseBearer(r *http.Request, secret string, logger *zap.Logger) (uuid.UUID, *Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		logger.Debug("Token validation failed", zap.Error(err))
		return uuid.Nil, nil, false
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		logger.Warn("Token subject is not a UUID", zap.String("sub", claims.Subject))
		return uuid.Nil, nil, false
	}

	return userID, claims, true
}
