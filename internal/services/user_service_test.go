package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"github.com/anonto42/shared-places/backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	users := newTestUserService(store)

	res, err := users.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Image: "/uploads/images/a.png"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.User.ID)
	assert.Empty(t, res.User.Password)

	stored, err := store.Users.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, MinPasswordCost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	claims, err := token.NewIssuer("test-secret", time.Hour).Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "A", claims.Name)
}

func TestUserService_Register_Conflict(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	users := newTestUserService(store)

	_, err := users.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	original, err := store.Users.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = users.Register(ctx, RegisterInput{Name: "B", Email: "a@x.com", Password: "another1"})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	after, err := store.Users.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestUserService_Register_Validation(t *testing.T) {
	users := newTestUserService(repositories.NewMemoryStore())

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@x.com", Password: "secret1"}},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}},
		{"short password", RegisterInput{Name: "A", Email: "a@x.com", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Register(context.Background(), tt.in)
			assert.True(t, apperr.Is(err, apperr.Validation))
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	users := newTestUserService(store)
	_, err := users.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := users.Authenticate(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.User.Password)

	_, wrongPassword := users.Authenticate(ctx, "a@x.com", "wrong")
	_, unknownEmail := users.Authenticate(ctx, "nobody@x.com", "secret1")

	for _, err := range []error{wrongPassword, unknownEmail} {
		assert.True(t, apperr.Is(err, apperr.Unauthorized))
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUserService_PasswordCostFloor(t *testing.T) {
	users := NewUserService(nil, token.NewIssuer("s", time.Hour), zap.NewNop(), WithPasswordCost(4))
	assert.Equal(t, MinPasswordCost, users.cost)
}

type fakeFirebase struct {
	tokens map[string]*auth.Token
}

func (f *fakeFirebase) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	t, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("token is not valid")
	}
	return t, nil
}

func TestUserService_FirebaseLogin(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	fb := &fakeFirebase{tokens: map[string]*auth.Token{
		"new":        {UID: "fb-new", Claims: map[string]interface{}{"email": "new@x.com", "name": "Newbie"}},
		"existing":   {UID: "fb-existing", Claims: map[string]interface{}{"email": "a@x.com", "email_verified": true}},
		"unverified": {UID: "fb-attacker", Claims: map[string]interface{}{"email": "a@x.com", "email_verified": false}},
		"no-claim":   {UID: "fb-attacker2", Claims: map[string]interface{}{"email": "a@x.com"}},
		"no-email":   {UID: "fb-anon", Claims: map[string]interface{}{}},
	}}
	users := NewUserService(store.Users, token.NewIssuer("test-secret", time.Hour), zap.NewNop(), WithFirebase(fb))
	assert.True(t, users.FirebaseEnabled())

	registered, err := users.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("creates new user", func(t *testing.T) {
		res, err := users.FirebaseLogin(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, "Newbie", res.User.Name)
		assert.Equal(t, "fb-new", res.User.FirebaseUID)
		assert.NotEmpty(t, res.Token)

		again, err := users.FirebaseLogin(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, again.User.ID)

		_, err = users.Authenticate(ctx, "new@x.com", "")
		assert.True(t, apperr.Is(err, apperr.Unauthorized))
	})

	t.Run("does not link unverified email", func(t *testing.T) {
		for _, idToken := range []string{"unverified", "no-claim"} {
			_, err := users.FirebaseLogin(ctx, idToken)
			assert.True(t, apperr.Is(err, apperr.Unauthorized), idToken)
		}

		stored, err := store.Users.GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Empty(t, stored.FirebaseUID)
		_, err = store.Users.GetUserByFirebaseUID(ctx, "fb-attacker")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("links existing account by email", func(t *testing.T) {
		res, err := users.FirebaseLogin(ctx, "existing")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, res.User.ID)

		linked, err := store.Users.GetUserByFirebaseUID(ctx, "fb-existing")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, linked.ID)

		_, err = users.Authenticate(ctx, "a@x.com", "secret1")
		assert.NoError(t, err)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		_, err := users.FirebaseLogin(ctx, "forged")
		assert.True(t, apperr.Is(err, apperr.Unauthorized))
	})

	t.Run("rejects token without email", func(t *testing.T) {
		_, err := users.FirebaseLogin(ctx, "no-email")
		assert.True(t, apperr.Is(err, apperr.Unauthorized))
	})

	t.Run("disabled without verifier", func(t *testing.T) {
		_, err := newTestUserService(store).FirebaseLogin(ctx, "new")
		assert.True(t, apperr.Is(err, apperr.BadRequest))
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	users := newTestUserService(store)
	u := createUser(t, store, "get@x.com")

	got, err := users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = users.GetUser(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	all, err := users.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Password)
}
