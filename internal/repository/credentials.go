// Package repository holds the persistent collections behind the auth
// and report services: registered identities and live reset tokens.
// Each collection lives in memory and mirrors itself to one snapshot key.
package repository

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bachesapp/bachesapp/internal/models"
	"github.com/bachesapp/bachesapp/internal/snapshot"
)

// ErrDuplicateEmail is returned by Register when the normalized email is
// already taken by another identity.
var ErrDuplicateEmail = errors.New("email already registered")

// CredentialStore holds all registered identities and answers
// email-existence and credential-match queries against them.
type CredentialStore struct {
	mu         sync.Mutex
	store      snapshot.Store
	log        *zap.Logger
	identities []models.Identity
}

// NewCredentialStore creates a CredentialStore persisting to store.
// Call Load before use to pick up a previous snapshot.
func NewCredentialStore(store snapshot.Store, log *zap.Logger) *CredentialStore {
	return &CredentialStore{store: store, log: log}
}

// Load populates the store from its snapshot key. An absent key leaves
// the store empty.
func (s *CredentialStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var identities []models.Identity
	ok, err := s.store.Get(snapshot.KeyIdentities, &identities)
	if err != nil {
		return err
	}
	if ok {
		s.identities = identities
	}
	return nil
}

// normalizeEmail is the canonical form used for all email comparisons.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailExists reports whether an identity with the given email is
// registered. The comparison is case-insensitive. Side-effect free.
func (s *CredentialStore) EmailExists(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByEmail(email) >= 0
}

// findByEmail returns the index of the identity with the given email,
// or -1. Caller holds the lock.
func (s *CredentialStore) findByEmail(email string) int {
	norm := normalizeEmail(email)
	for i, id := range s.identities {
		if normalizeEmail(id.Email) == norm {
			return i
		}
	}
	return -1
}

// Register creates a new identity. It fails with ErrDuplicateEmail when
// the email is already taken. The returned identity has its credential
// blanked. The uniqueness check and the insert run under one lock, so
// overlapping Register calls cannot both slip past the check.
func (s *CredentialStore) Register(name, email, credential, phone string) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmail(email) >= 0 {
		return models.Identity{}, ErrDuplicateEmail
	}
	identity := models.Identity{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Avatar:     models.PlaceholderAvatar,
		Credential: credential,
	}
	s.identities = append(s.identities, identity)
	s.persist()
	return identity.Public(), nil
}

// FindByCredentials returns the identity matching the email
// (case-insensitive) and the exact credential. A miss reports false
// without distinguishing unknown email from wrong credential, so callers
// cannot probe which emails are registered.
func (s *CredentialStore) FindByCredentials(email, credential string) (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findByEmail(email)
	if i < 0 || s.identities[i].Credential != credential {
		return models.Identity{}, false
	}
	return s.identities[i].Public(), true
}

// UpdateCredential replaces the credential of the identity with the
// given email. Returns false if no such identity exists.
func (s *CredentialStore) UpdateCredential(email, newCredential string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findByEmail(email)
	if i < 0 {
		return false
	}
	s.identities[i].Credential = newCredential
	s.persist()
	return true
}

// persist mirrors the collection to the snapshot store. Failures are
// logged, not returned: snapshot writes are fire-and-forget and the
// in-memory state stays authoritative. Caller holds the lock.
func (s *CredentialStore) persist() {
	if err := s.store.Put(snapshot.KeyIdentities, s.identities); err != nil {
		s.log.Error("failed to persist identities", zap.Error(err))
	}
}
