package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oficont/oficont/internal/models"
	"gorm.io/gorm"
)

// Profile is the resolved permission set of one user.
type Profile struct {
	Name        string
	Permissions []Permission
}

// Has reports whether any held permission grants requested.
func (p *Profile) Has(requested Permission) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Permissions {
		if held.Matches(requested) {
			return true
		}
	}
	return false
}

// Resolver maps a user to a profile. A nil profile means the user has none.
type Resolver interface {
	Resolve(ctx context.Context, userID uint) (*Profile, error)
}

// DBResolver reads the user's profile and permissions from the database.
type DBResolver struct {
	db *gorm.DB
}

func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(ctx context.Context, userID uint) (*Profile, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile.Permissions").
		Where("active = ?", true).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if user.Profile == nil {
		return nil, nil
	}
	p := &Profile{Name: user.Profile.Name, Permissions: make([]Permission, 0, len(user.Profile.Permissions))}
	for _, perm := range user.Profile.Permissions {
		p.Permissions = append(p.Permissions, NewPermission(perm.ResourceType, Action(perm.Action)))
	}
	return p, nil
}

type cacheEntry struct {
	profile   *Profile
	expiresAt time.Time
}

// CachedResolver keeps resolved profiles for ttl.
type CachedResolver struct {
	inner Resolver
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[uint]cacheEntry
}

func NewCachedResolver(inner Resolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, ttl: ttl, now: time.Now, cache: map[uint]cacheEntry{}}
}

func (r *CachedResolver) Resolve(ctx context.Context, userID uint) (*Profile, error) {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok && r.now().Before(entry.expiresAt) {
		return entry.profile, nil
	}

	p, err := r.inner.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[userID] = cacheEntry{profile: p, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return p, nil
}

// Invalidate drops one user's cached profile.
func (r *CachedResolver) Invalidate(userID uint) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = map[uint]cacheEntry{}
	r.mu.Unlock()
}
