// Package service provides the session/identity manager and the report
// store, the business logic behind the HTTP handlers. Persistence is
// delegated to the repository collections and the snapshot stores.
package service

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/bachesapp/bachesapp/internal/models"
	"github.com/bachesapp/bachesapp/internal/repository"
	"github.com/bachesapp/bachesapp/internal/snapshot"
)

// ErrInvalidCredentials is returned by Login for any email/credential
// mismatch. Unknown email and wrong credential are deliberately
// indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or credential")

// CredentialSource defines the credential-store operations required by
// the auth manager.
type CredentialSource interface {
	// Register creates a new identity, failing on duplicate email.
	Register(name, email, credential, phone string) (models.Identity, error)
	// FindByCredentials returns the identity matching email and
	// credential, reporting false on any mismatch.
	FindByCredentials(email, credential string) (models.Identity, bool)
	// UpdateCredential replaces the credential of the identity with
	// the given email. Returns false if no such identity exists.
	UpdateCredential(email, newCredential string) bool
}

// TokenSource defines the reset-token registry operations required by
// the auth manager.
type TokenSource interface {
	// Issue creates a single-use reset token for a registered email.
	Issue(email string) (string, error)
	// Validate reports whether the token is currently usable.
	Validate(token string) bool
	// Consume invalidates the token and returns its email.
	Consume(token string) (string, error)
}

// ResetNotifier delivers an issued reset token to the account owner.
type ResetNotifier interface {
	NotifyReset(email, token string)
}

// LogNotifier is the ResetNotifier used in this process-local design:
// it logs the reset link instead of sending mail.
type LogNotifier struct {
	// Log receives the reset link.
	Log *zap.Logger
	// BaseURL prefixes the reset path in the logged link.
	BaseURL string
}

// NotifyReset logs the reset link for the given email.
func (n *LogNotifier) NotifyReset(email, token string) {
	n.Log.Info("password reset link issued",
		zap.String("email", email),
		zap.String("url", n.BaseURL+"/reset-password/"+token),
	)
}

// AuthManager owns the current session and exposes the login, logout,
// registration, and password-reset flows. The session occupies at most
// one of two durability tiers: remembered (survives restarts) or
// ephemeral (dies with the process).
type AuthManager struct {
	mu         sync.Mutex
	creds      CredentialSource
	tokens     TokenSource
	notifier   ResetNotifier
	remembered snapshot.Store
	ephemeral  snapshot.Store
	log        *zap.Logger

	// onUnauthorized is the redirect-equivalent side effect fired by
	// RequireAuth when no session is active.
	onUnauthorized func()

	current *models.Identity
	tier    models.SessionTier
	loading bool
}

// NewAuthManager creates an AuthManager. The manager starts in the
// loading state; call Load to pick up a persisted session and finish
// startup. onUnauthorized may be nil.
func NewAuthManager(
	creds CredentialSource,
	tokens TokenSource,
	notifier ResetNotifier,
	remembered snapshot.Store,
	ephemeral snapshot.Store,
	onUnauthorized func(),
	log *zap.Logger,
) *AuthManager {
	return &AuthManager{
		creds:          creds,
		tokens:         tokens,
		notifier:       notifier,
		remembered:     remembered,
		ephemeral:      ephemeral,
		onUnauthorized: onUnauthorized,
		log:            log,
		tier:           models.TierNone,
		loading:        true,
	}
}

// Load restores a persisted session, preferring the remembered tier,
// and clears the loading flag. Until Load completes RequireAuth treats
// the session as undecided rather than absent.
func (m *AuthManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	var identity models.Identity
	ok, err := m.remembered.Get(snapshot.KeySessionRemembered, &identity)
	if err != nil {
		return err
	}
	if ok {
		m.current = &identity
		m.tier = models.TierRemembered
		return nil
	}
	ok, err = m.ephemeral.Get(snapshot.KeySessionEphemeral, &identity)
	if err != nil {
		return err
	}
	if ok {
		m.current = &identity
		m.tier = models.TierEphemeral
	}
	return nil
}

// Login authenticates the email/credential pair and opens a session.
// Any mismatch fails with ErrInvalidCredentials. remember selects the
// durability tier of the session.
func (m *AuthManager) Login(email, credential string, remember bool) (models.Identity, error) {
	identity, ok := m.creds.FindByCredentials(email, credential)
	if !ok {
		return models.Identity{}, ErrInvalidCredentials
	}
	m.mu.Lock()
	m.setSessionLocked(identity, remember)
	m.mu.Unlock()
	m.log.Info("session opened",
		zap.String("user_id", identity.ID),
		zap.Bool("remembered", remember),
	)
	return identity, nil
}

// Register creates a new identity (propagating ErrDuplicateEmail from
// the credential store) and opens a remembered session for it.
func (m *AuthManager) Register(name, email, credential, phone string) (models.Identity, error) {
	identity, err := m.creds.Register(name, email, credential, phone)
	if err != nil {
		return models.Identity{}, err
	}
	m.mu.Lock()
	m.setSessionLocked(identity, true)
	m.mu.Unlock()
	m.log.Info("identity registered", zap.String("user_id", identity.ID))
	return identity, nil
}

// Logout clears the in-memory session and both persistence tiers.
func (m *AuthManager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.tier = models.TierNone
	m.clearTier(models.TierRemembered)
	m.clearTier(models.TierEphemeral)
}

// RequestPasswordReset issues a reset token for email and hands it to
// the notifier. An unregistered email is reported as success with no
// token issued, so callers cannot probe which emails exist.
func (m *AuthManager) RequestPasswordReset(email string) error {
	token, err := m.tokens.Issue(email)
	if errors.Is(err, repository.ErrUnknownEmail) {
		m.log.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if m.notifier != nil {
		m.notifier.NotifyReset(email, token)
	}
	return nil
}

// ValidateResetToken reports whether token is currently usable.
func (m *AuthManager) ValidateResetToken(token string) bool {
	return m.tokens.Validate(token)
}

// ResetPassword consumes the token and stores the new credential for
// the token's email. Fails with ErrInvalidOrExpiredToken if the token
// is unusable; the token is spent even if the credential update then
// misses, there is no transaction spanning the two snapshots.
func (m *AuthManager) ResetPassword(token, newCredential string) error {
	email, err := m.tokens.Consume(token)
	if err != nil {
		return err
	}
	if !m.creds.UpdateCredential(email, newCredential) {
		m.log.Error("reset token consumed but identity missing")
		return repository.ErrInvalidOrExpiredToken
	}
	m.log.Info("credential reset completed")
	return nil
}

// RequireAuth reports whether a session is active. With no session and
// startup loading finished it fires the unauthorized side effect and
// returns false. While loading is still in flight it returns true
// without firing: "not yet loaded" must not read as "unauthenticated".
func (m *AuthManager) RequireAuth() bool {
	m.mu.Lock()
	active := m.current != nil
	loading := m.loading
	m.mu.Unlock()
	if !active && !loading {
		if m.onUnauthorized != nil {
			m.onUnauthorized()
		}
		return false
	}
	return true
}

// CurrentIdentity returns a copy of the active identity, or nil.
func (m *AuthManager) CurrentIdentity() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	identity := *m.current
	return &identity
}

// IsAuthenticated reports whether a session is active.
func (m *AuthManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// SessionTier reports which durability tier holds the active session.
func (m *AuthManager) SessionTier() models.SessionTier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tier
}

// IsLoading reports whether the startup session load is still in flight.
func (m *AuthManager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// setSessionLocked installs identity as the current session in the
// selected tier and clears the other tier, so at most one tier ever
// holds a copy. Caller holds the lock.
func (m *AuthManager) setSessionLocked(identity models.Identity, remember bool) {
	identity = identity.Public()
	m.current = &identity
	if remember {
		m.tier = models.TierRemembered
		if err := m.remembered.Put(snapshot.KeySessionRemembered, identity); err != nil {
			m.log.Error("failed to persist remembered session", zap.Error(err))
		}
		m.clearTier(models.TierEphemeral)
	} else {
		m.tier = models.TierEphemeral
		if err := m.ephemeral.Put(snapshot.KeySessionEphemeral, identity); err != nil {
			m.log.Error("failed to persist ephemeral session", zap.Error(err))
		}
		m.clearTier(models.TierRemembered)
	}
}

// clearTier removes the session copy held by the given tier.
func (m *AuthManager) clearTier(tier models.SessionTier) {
	var err error
	switch tier {
	case models.TierRemembered:
		err = m.remembered.Delete(snapshot.KeySessionRemembered)
	case models.TierEphemeral:
		err = m.ephemeral.Delete(snapshot.KeySessionEphemeral)
	default:
		return
	}
	if err != nil {
		m.log.Error("failed to clear session tier", zap.Error(err))
	}
}
