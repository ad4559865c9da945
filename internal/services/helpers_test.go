package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"github.com/anonto42/shared-places/backend/internal/token"
	"github.com/anonto42/shared-places/backend/pkg/geocode"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStore = errors.New("store unavailable")

// failingUsers wraps a UserRepository and fails the owned-set writes.
type failingUsers struct {
	repositories.UserRepository
	addErr    error
	removeErr error
}

func (f *failingUsers) AddPlace(ctx context.Context, userID, placeID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.UserRepository.AddPlace(ctx, userID, placeID)
}

func (f *failingUsers) RemovePlace(ctx context.Context, userID, placeID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.UserRepository.RemovePlace(ctx, userID, placeID)
}

func (f *failingUsers) AddPost(ctx context.Context, userID, postID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.UserRepository.AddPost(ctx, userID, postID)
}

func (f *failingUsers) RemovePost(ctx context.Context, userID, postID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.UserRepository.RemovePost(ctx, userID, postID)
}

type fakeGeocoder struct {
	err error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (geocode.Coordinates, error) {
	if f.err != nil {
		return geocode.Coordinates{}, f.err
	}
	return geocode.NewStatic().Geocode(ctx, address)
}

type fakeImages struct {
	mu        sync.Mutex
	removed   []string
	removeErr error
}

func (f *fakeImages) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	return "/uploads/images/test.png", nil
}

func (f *fakeImages) Remove(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return f.removeErr
}

func newTestUserService(store *repositories.Store) *UserService {
	return NewUserService(store.Users, token.NewIssuer("test-secret", time.Hour), zap.NewNop())
}

// createUser stores a user directly, skipping password hashing.
func createUser(t *testing.T, store *repositories.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "User " + email, Email: email, Password: "x", Image: "/uploads/images/avatar.png"}
	require.NoError(t, store.Users.CreateUser(context.Background(), u))
	return u
}

func ownerOf(t *testing.T, store *repositories.Store, id string) *models.User {
	t.Helper()
	u, err := store.Users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u
}
