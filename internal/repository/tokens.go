package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/bachesapp/bachesapp/internal/snapshot"
)

// ErrUnknownEmail is returned by Issue for unregistered emails. It must
// not cross the auth-manager boundary (account enumeration).
var ErrUnknownEmail = errors.New("email not registered")

// ErrInvalidOrExpiredToken is returned by Consume for absent, already
// consumed, or expired tokens.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

// resetTokenTTL is how long an issued token stays valid.
const resetTokenTTL = time.Hour

// EmailDirectory answers whether an email belongs to a registered
// identity. Satisfied by CredentialStore.
type EmailDirectory interface {
	EmailExists(email string) bool
}

// resetEntry is the persisted value of one live token.
type resetEntry struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResetTokenRegistry issues, validates, and consumes single-use,
// time-limited password-reset tokens. Tokens move strictly forward:
// issued → valid (revalidated any number of times) → consumed, or
// issued → expired → evicted.
type ResetTokenRegistry struct {
	mu     sync.Mutex
	dir    EmailDirectory
	store  snapshot.Store
	log    *zap.Logger
	now    func() time.Time
	tokens map[string]resetEntry
}

// NewResetTokenRegistry creates a registry checking email existence
// against dir and persisting to store. Call Load before use.
func NewResetTokenRegistry(dir EmailDirectory, store snapshot.Store, log *zap.Logger) *ResetTokenRegistry {
	return &ResetTokenRegistry{
		dir:    dir,
		store:  store,
		log:    log,
		now:    time.Now,
		tokens: make(map[string]resetEntry),
	}
}

// SetNow overrides the registry clock. Tests use it to simulate expiry.
func (r *ResetTokenRegistry) SetNow(now func() time.Time) {
	r.now = now
}

// Load populates the registry from its snapshot key.
func (r *ResetTokenRegistry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tokens := make(map[string]resetEntry)
	ok, err := r.store.Get(snapshot.KeyResetTokens, &tokens)
	if err != nil {
		return err
	}
	if ok {
		r.tokens = tokens
	}
	return nil
}

// Issue creates a token for email, valid for one hour. It fails with
// ErrUnknownEmail when the email is not registered. The token is unique
// among currently-live tokens.
func (r *ResetTokenRegistry) Issue(email string) (string, error) {
	if !r.dir.EmailExists(email) {
		return "", ErrUnknownEmail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	token := ksuid.New().String()
	for {
		if _, live := r.tokens[token]; !live {
			break
		}
		token = ksuid.New().String()
	}
	r.tokens[token] = resetEntry{
		Email:     email,
		ExpiresAt: r.now().Add(resetTokenTTL),
	}
	r.persist()
	return token, nil
}

// Validate reports whether token is currently usable. An expired token
// is evicted on the spot and reported unusable. Validating a live token
// does not consume it.
func (r *ResetTokenRegistry) Validate(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validateLocked(token)
}

func (r *ResetTokenRegistry) validateLocked(token string) bool {
	entry, ok := r.tokens[token]
	if !ok {
		return false
	}
	if r.now().After(entry.ExpiresAt) {
		delete(r.tokens, token)
		r.persist()
		return false
	}
	return true
}

// Consume removes the token and returns its email. It fails with
// ErrInvalidOrExpiredToken unless the token validates right now; a
// second Consume of the same token always fails.
func (r *ResetTokenRegistry) Consume(token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.validateLocked(token) {
		return "", ErrInvalidOrExpiredToken
	}
	email := r.tokens[token].Email
	delete(r.tokens, token)
	r.persist()
	return email, nil
}

// EvictExpired removes every expired token and returns how many were
// dropped. Lazy eviction in Validate only fires for tokens that get
// looked at again; the cleaner calls this to sweep the rest.
func (r *ResetTokenRegistry) EvictExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for token, entry := range r.tokens {
		if now.After(entry.ExpiresAt) {
			delete(r.tokens, token)
			removed++
		}
	}
	if removed > 0 {
		r.persist()
	}
	return removed
}

// persist mirrors the token map to the snapshot store. Failures are
// logged, not returned. Caller holds the lock.
func (r *ResetTokenRegistry) persist() {
	if err := r.store.Put(snapshot.KeyResetTokens, r.tokens); err != nil {
		r.log.Error("failed to persist reset tokens", zap.Error(err))
	}
}
