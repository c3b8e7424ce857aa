package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/internal/auth"
	"github.com/taskpulse/apiserver/internal/media"
	"github.com/taskpulse/apiserver/internal/store"
	"github.com/taskpulse/apiserver/types"
)

type fakeUsers struct {
	mu        sync.Mutex
	byName    map[string]types.User
	nextID    int
	lookupErr error
	createErr error
	creates   int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]types.User{}, nextID: 1}
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return types.User{}, f.lookupErr
	}
	user, ok := f.byName[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) Create(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	if _, ok := f.byName[user.Username]; ok {
		return types.User{}, fmt.Errorf("username %q: %w", user.Username, store.ErrConflict)
	}
	user.ID = f.nextID
	f.nextID++
	f.byName[user.Username] = user
	return user, nil
}

type fakeUploader struct {
	uploads []media.Media
	removed []string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, m media.Media) (string, error) {
	if f.err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrUpload, f.err)
	}
	f.uploads = append(f.uploads, m)
	return fmt.Sprintf("https://cdn.test/user_profiles/%d.png", len(f.uploads)), nil
}

func (f *fakeUploader) Remove(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type fakeNotifier struct {
	events []types.Identity
	err    error
}

func (f *fakeNotifier) UserRegistered(_ context.Context, user types.Identity) error {
	f.events = append(f.events, user)
	return f.err
}

type fakeDenylist struct {
	revoked map[string]time.Time
	err     error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Time{}}
}

func (f *fakeDenylist) Revoke(_ context.Context, id string, exp time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[id] = exp
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[id]
	return ok, nil
}

var errBoom = errors.New("boom")

func newTestIssuer(t *testing.T, opts ...auth.IssuerOption) *auth.Issuer {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret", 72*time.Hour, opts...)
	require.NoError(t, err)
	return issuer
}
