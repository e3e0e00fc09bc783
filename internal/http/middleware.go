package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/auth"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/user"
)

type ctxKey int

const (
	ctxIdentity ctxKey = iota
	ctxProfile
)

type Identifier interface {
	Identify(ctx context.Context, token uuid.UUID) (auth.Identity, error)
}

type ProfileSource interface {
	GetByAuthID(ctx context.Context, authID uuid.UUID) (user.Profile, error)
}

// Gate blocks screens behind the signed-in identity and, for the back
// office, the administrator role resolved from the profile record.
type Gate struct {
	auth     Identifier
	profiles ProfileSource
}

func NewGate(auth Identifier, profiles ProfileSource) *Gate {
	return &Gate{auth: auth, profiles: profiles}
}

func bearerToken(r *http.Request) (uuid.UUID, bool) {
	h := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return uuid.Nil, false
	}
	token, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return token, true
}

func (g *Gate) identify(r *http.Request) (auth.Identity, error) {
	token, ok := bearerToken(r)
	if !ok {
		return auth.Identity{}, auth.ErrSessionNotFound
	}
	return g.auth.Identify(r.Context(), token)
}

// RequireUser rejects requests without a valid session.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.identify(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally resolves the role. An identity whose role lookup
// fails gets the access-denied state, not a retry.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.identify(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		profile, err := g.profiles.GetByAuthID(r.Context(), identity.AuthID)
		if err != nil || profile.Role != user.RoleAdmin {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}

		ctx := context.WithValue(r.Context(), ctxIdentity, identity)
		ctx = context.WithValue(ctx, ctxProfile, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the identity when a valid session is presented but lets
// anonymous requests through; checkout works for guests too.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, err := g.identify(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxIdentity, identity))
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(ctx context.Context) (auth.Identity, bool) {
	v, ok := ctx.Value(ctxIdentity).(auth.Identity)
	return v, ok
}

func profileFrom(ctx context.Context) (user.Profile, bool) {
	v, ok := ctx.Value(ctxProfile).(user.Profile)
	return v, ok
}

var errTokenMissing = errors.New("missing bearer token")

// requestToken is used by sign-out and session reads, which act on the
// presented token rather than the resolved identity.
func requestToken(r *http.Request) (uuid.UUID, error) {
	token, ok := bearerToken(r)
	if !ok {
		return uuid.Nil, errTokenMissing
	}
	return token, nil
}

// CORS reflects the request origin when it is allowed; "*" in the allow-list
// reflects every origin, which plays better with browsers than a literal
// wildcard.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowOrigins) == 1 && allowOrigins[0] == "*"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if r.Method == http.MethodOptions {
				writeCORSHeaders(w, origin, allowOrigins, allowAll)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			writeCORSHeaders(w, origin, allowOrigins, allowAll)
			next.ServeHTTP(w, r)
		})
	}
}

func writeCORSHeaders(w http.ResponseWriter, origin string, allowOrigins []string, allowAll bool) {
	if origin == "" {
		return
	}

	if allowAll || originAllowed(origin, allowOrigins) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	} else {
		return
	}

	w.Header().Set("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func originAllowed(origin string, allow []string) bool {
	for _, a := range allow {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(origin)) {
			return true
		}
	}
	return false
}
