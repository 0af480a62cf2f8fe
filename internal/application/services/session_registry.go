package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

// AnonymousSession is the key shared by callers without credentials
const AnonymousSession = "anonymous"

// DefaultSessionIdleTTL is how long an untouched session is kept
const DefaultSessionIdleTTL = 30 * time.Minute

type session struct {
	stores   map[entities.Domain]*FacilityStore
	lastSeen time.Time
}

// SessionRegistry hands every caller its own facility collections. Callers are
// told apart by their forwarded credentials; sessions idle longer than the TTL
// are dropped on the next access.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
	clock    func() time.Time
}

// NewSessionRegistry creates an empty registry. idleTTL <= 0 uses
// DefaultSessionIdleTTL.
func NewSessionRegistry(idleTTL time.Duration, clock func() time.Time) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &SessionRegistry{
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
		clock:    clock,
	}
}

// SessionKey derives the registry key of the caller in ctx. Credentials are
// hashed so raw tokens never sit in the map.
func SessionKey(ctx context.Context) string {
	credentials, ok := providers.CredentialsFromContext(ctx)
	if !ok {
		return AnonymousSession
	}
	sum := sha256.Sum256([]byte(credentials))
	return hex.EncodeToString(sum[:])
}

// Store returns the caller's collection for domain, creating the session on
// first use.
func (r *SessionRegistry) Store(ctx context.Context, domain entities.Domain) (*FacilityStore, error) {
	if domain != entities.DomainHospital && domain != entities.DomainRestaurant {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown domain %q", domain))
	}
	key := SessionKey(ctx)
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)

	s, ok := r.sessions[key]
	if !ok {
		s = &session{stores: map[entities.Domain]*FacilityStore{
			entities.DomainHospital:   NewFacilityStore(),
			entities.DomainRestaurant: NewFacilityStore(),
		}}
		r.sessions[key] = s
	}
	s.lastSeen = now
	return s.stores[domain], nil
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) sweepLocked(now time.Time) {
	for key, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idleTTL {
			delete(r.sessions, key)
		}
	}
}
