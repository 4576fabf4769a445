package middleware

import (
	"context"
	"net/http"
	"strings"

	"cakery/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the caller identity extracted from a verified bearer token.
type Identity struct {
	// AuthID is the identity provider's subject for the caller.
	AuthID string
	// Name is the display name claim, when the provider includes one.
	Name string
}

// IdentityFromContext returns the caller identity set by Authenticate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// ContextWithIdentity attaches a caller identity, primarily for tests.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// publicPaths need no caller identity.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Authenticate verifies the Authorization bearer token and stores the caller
// identity in the request context. Requests without a valid identity are
// rejected with 401.
func Authenticate(secret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing authorization header")
				unauthorised(w)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				logger.Warn().Str("path", r.URL.Path).Msg("malformed authorization header")
				unauthorised(w)
				return
			}

			token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				unauthorised(w)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorised(w)
				return
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("bearer token has no subject")
				unauthorised(w)
				return
			}

			identity := Identity{AuthID: subject}
			if name, ok := claims["name"].(string); ok {
				identity.Name = name
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileResolver resolves a caller identity to a stored user profile.
type ProfileResolver interface {
	EnsureProfile(ctx context.Context, authID, name string) (*model.UserProfile, error)
}

// RequireAdmin rejects callers whose profile does not carry the admin role.
// The role is read from the profile store on each request; no role flag is
// cached in process.
func RequireAdmin(profiles ProfileResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				unauthorised(w)
				return
			}

			profile, err := profiles.EnsureProfile(r.Context(), identity.AuthID, identity.Name)
			if err != nil {
				logger.Error().Err(err).Msg("failed to resolve caller profile")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"success": false, "error": "internal server error"}`))
				return
			}

			if profile.Role != model.RoleAdmin {
				logger.Warn().
					Str("profile_id", profile.ID.String()).
					Str("path", r.URL.Path).
					Msg("non-admin caller on admin route")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"success": false, "error": "admin role required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorised(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success": false, "error": "authentication required"}`))
}
