package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bachesapp/bachesapp/internal/snapshot"
)

// staticDirectory answers EmailExists from a fixed set.
type staticDirectory map[string]bool

func (d staticDirectory) EmailExists(email string) bool { return d[email] }

// testClock is a manually advanced clock for expiry simulation.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRegistry(t *testing.T, dir staticDirectory) (*ResetTokenRegistry, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)}
	r := NewResetTokenRegistry(dir, snapshot.NewMemStore(), zap.NewNop())
	r.now = clock.Now
	require.NoError(t, r.Load())
	return r, clock
}

func TestIssue_UnknownEmail(t *testing.T) {
	r, _ := newTestRegistry(t, staticDirectory{})
	_, err := r.Issue("nadie@example.com")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestIssue_TokensAreOpaqueAndUnique(t *testing.T) {
	r, _ := newTestRegistry(t, staticDirectory{"ana@example.com": true})

	a, err := r.Issue("ana@example.com")
	require.NoError(t, err)
	b, err := r.Issue("ana@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestValidate_IsIdempotentBeforeConsume(t *testing.T) {
	r, _ := newTestRegistry(t, staticDirectory{"ana@example.com": true})
	token, err := r.Issue("ana@example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, r.Validate(token), "validation %d should pass", i)
	}
}

func TestValidate_AbsentToken(t *testing.T) {
	r, _ := newTestRegistry(t, staticDirectory{})
	assert.False(t, r.Validate("no-such-token"))
}

func TestValidate_ExpiryEvictsLazily(t *testing.T) {
	r, clock := newTestRegistry(t, staticDirectory{"ana@example.com": true})
	token, err := r.Issue("ana@example.com")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Minute)

	assert.False(t, r.Validate(token))
	// The entry is gone, not just reported invalid: rewinding the clock
	// cannot bring it back.
	clock.Advance(-2 * time.Hour)
	assert.False(t, r.Validate(token))
}

func TestConsume_SingleUse(t *testing.T) {
	r, _ := newTestRegistry(t, staticDirectory{"ana@example.com": true})
	token, err := r.Issue("ana@example.com")
	require.NoError(t, err)

	email, err := r.Consume(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	_, err = r.Consume(token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.False(t, r.Validate(token))
}

func TestConsume_ExpiredToken(t *testing.T) {
	r, clock := newTestRegistry(t, staticDirectory{"ana@example.com": true})
	token, err := r.Issue("ana@example.com")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = r.Consume(token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestEvictExpired_SweepsOnlyExpired(t *testing.T) {
	r, clock := newTestRegistry(t, staticDirectory{"ana@example.com": true})

	old, err := r.Issue("ana@example.com")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	fresh, err := r.Issue("ana@example.com")
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)

	// old is now 75 minutes past issue, fresh only 45.
	assert.Equal(t, 1, r.EvictExpired())
	assert.False(t, r.Validate(old))
	assert.True(t, r.Validate(fresh))
	assert.Equal(t, 0, r.EvictExpired())
}

func TestRegistry_LoadRestoresSnapshot(t *testing.T) {
	mem := snapshot.NewMemStore()
	clock := &testClock{now: time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)}

	r := NewResetTokenRegistry(staticDirectory{"ana@example.com": true}, mem, zap.NewNop())
	r.now = clock.Now
	require.NoError(t, r.Load())
	token, err := r.Issue("ana@example.com")
	require.NoError(t, err)

	reloaded := NewResetTokenRegistry(staticDirectory{}, mem, zap.NewNop())
	reloaded.now = clock.Now
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.Validate(token))
}
