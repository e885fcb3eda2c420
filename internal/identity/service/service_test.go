package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identitycache "github.com/AlibekovAA/secure-notes/backend/internal/identity/cache"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	userdomain "github.com/AlibekovAA/secure-notes/backend/internal/user/domain"
)

type mockUserFinder struct {
	calls              int
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (m *mockUserFinder) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	m.calls++
	return m.findByUsernameFunc(ctx, username)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (identitydomain.Identity, bool, error) {
	return identitydomain.Identity{}, false, errors.New("redis down")
}

func (failingCache) Set(context.Context, identitydomain.Identity) error {
	return errors.New("redis down")
}

func (failingCache) Invalidate(context.Context, string) error {
	return nil
}

func (failingCache) Backend() string {
	return "failing"
}

func (failingCache) Close() error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "debug")
}

func usersWithAlice() *mockUserFinder {
	return &mockUserFinder{findByUsernameFunc: func(_ context.Context, username string) (userdomain.User, error) {
		if username == "alice" {
			return userdomain.User{ID: 1, Username: "alice"}, nil
		}
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(usersWithAlice(), nil, testLogger())

	identity, err := r.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, identitydomain.Identity{UserID: 1, Username: "alice"}, identity)
}

func TestResolver_UnknownUser(t *testing.T) {
	r := NewResolver(usersWithAlice(), nil, testLogger())

	_, err := r.Resolve(context.Background(), "ghost")
	assert.True(t, errors.Is(err, identitydomain.ErrUnknownIdentity))
}

func usersFrom(registered map[string]int64) *mockUserFinder {
	return &mockUserFinder{findByUsernameFunc: func(_ context.Context, username string) (userdomain.User, error) {
		if id, ok := registered[username]; ok {
			return userdomain.User{ID: id, Username: username}, nil
		}
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}}
}

func TestResolver_RemovedUserStopsResolving(t *testing.T) {
	registered := map[string]int64{"alice": 1}
	users := usersFrom(registered)
	r := NewResolver(users, nil, testLogger())
	ctx := context.Background()

	_, err := r.Resolve(ctx, "alice")
	require.NoError(t, err)

	delete(registered, "alice")

	identity, err := r.Resolve(ctx, "alice")
	assert.True(t, errors.Is(err, identitydomain.ErrUnknownIdentity))
	assert.Equal(t, identitydomain.Identity{}, identity)
	assert.Equal(t, 2, users.calls)
}

func TestResolver_CachedRemovedUserExpires(t *testing.T) {
	registered := map[string]int64{"alice": 1}
	users := usersFrom(registered)
	clk := clock.NewMockClock(time.Now())
	c := identitycache.NewMemoryCache(context.Background(), 5*time.Second, clk, testLogger())
	defer c.Close()
	r := NewResolver(users, c, testLogger())
	ctx := context.Background()

	_, err := r.Resolve(ctx, "alice")
	require.NoError(t, err)
	delete(registered, "alice")

	clk.Advance(5 * time.Second)
	_, err = r.Resolve(ctx, "alice")
	assert.True(t, errors.Is(err, identitydomain.ErrUnknownIdentity))
	assert.Equal(t, 2, users.calls)
}

func TestResolver_StorageFailureIsNotUnknown(t *testing.T) {
	users := &mockUserFinder{findByUsernameFunc: func(context.Context, string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}}
	r := NewResolver(users, nil, testLogger())

	_, err := r.Resolve(context.Background(), "alice")
	require.Error(t, err)
	assert.False(t, errors.Is(err, identitydomain.ErrUnknownIdentity))
	assert.True(t, errors.Is(err, commonerrors.ErrDatabaseError))
}

func TestResolver_CachesOnlyPositiveResults(t *testing.T) {
	users := usersWithAlice()
	clk := clock.NewMockClock(time.Now())
	c := identitycache.NewMemoryCache(context.Background(), time.Minute, clk, testLogger())
	defer c.Close()
	r := NewResolver(users, c, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(ctx, "alice")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, users.calls)

	for i := 0; i < 2; i++ {
		_, err := r.Resolve(ctx, "ghost")
		assert.True(t, errors.Is(err, identitydomain.ErrUnknownIdentity))
	}
	assert.Equal(t, 3, users.calls)

	clk.Advance(time.Minute)
	_, err := r.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, users.calls)
}

func TestResolver_CacheErrorsFallThrough(t *testing.T) {
	users := usersWithAlice()
	r := NewResolver(users, failingCache{}, testLogger())

	identity, err := r.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, 1, users.calls)
}
