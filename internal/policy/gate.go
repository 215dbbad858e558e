package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/httpx"
	"github.com/oficont/oficont/internal/logging"
	"gorm.io/gorm"
)

// AuthGate is the single authorization point for /admin.
type AuthGate struct {
	resolver *CachedResolver
}

// NewAuthGate resolves profiles from db, caching them for cacheTTL.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	return NewAuthGateWithResolver(NewDBResolver(db), cacheTTL)
}

func NewAuthGateWithResolver(r Resolver, cacheTTL time.Duration) *AuthGate {
	return &AuthGate{resolver: NewCachedResolver(r, cacheTTL)}
}

func (g *AuthGate) profile(ctx context.Context) *Profile {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	p, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("resolve profile failed", "user_id", userID, "error", err)
		return nil
	}
	return p
}

// Can reports whether the session user may perform action on resource.
func (g *AuthGate) Can(ctx context.Context, resource string, action Action) bool {
	return g.profile(ctx).Has(NewPermission(resource, action))
}

// IsStaff reports whether the session user has any profile at all.
func (g *AuthGate) IsStaff(ctx context.Context) bool {
	return g.profile(ctx) != nil
}

// Forbidden answers 403 as JSON for API clients and plain text otherwise.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) || r.Header.Get("Content-Type") == "application/json" {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// RequireStaff blocks users without a profile.
func (g *AuthGate) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsStaff(r.Context()) {
			Forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
