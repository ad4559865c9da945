package services

import (
	"context"
	"errors"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"github.com/anonto42/shared-places/backend/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordCost is the lowest bcrypt cost used for stored credentials.
const MinPasswordCost = 12

const minPasswordLength = 6

const invalidCredentials = "Invalid credentials, could not log you in."

// FirebaseVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type FirebaseVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// UserService registers and authenticates users.
type UserService struct {
	users    repositories.UserRepository
	tokens   *token.Issuer
	firebase FirebaseVerifier
	cost     int
	logger   *zap.Logger
}

type UserOption func(*UserService)

// WithFirebase enables FirebaseLogin.
func WithFirebase(v FirebaseVerifier) UserOption {
	return func(s *UserService) { s.firebase = v }
}

// WithPasswordCost sets the bcrypt cost. Values below MinPasswordCost are raised.
func WithPasswordCost(cost int) UserOption {
	return func(s *UserService) { s.cost = cost }
}

func NewUserService(users repositories.UserRepository, tokens *token.Issuer, logger *zap.Logger, opts ...UserOption) *UserService {
	s := &UserService{users: users, tokens: tokens, cost: MinPasswordCost, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.cost < MinPasswordCost {
		s.cost = MinPasswordCost
	}
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Image    string
}

// AuthResult is returned by every successful signup or login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// FirebaseEnabled reports whether FirebaseLogin can be used.
func (s *UserService) FirebaseEnabled() bool {
	return s.firebase != nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "", "Fetching users failed, please try again later.")
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "Could not find a user for the provided id.", "Fetching user failed, please try again later.")
	}
	return user, nil
}

// Register creates a user with a bcrypt-hashed password. Email matching is
// exact.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if !required(in.Name, in.Email, in.Password) || len(in.Password) < minPasswordLength {
		return nil, apperr.New(apperr.Validation, invalidInputs)
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.New(apperr.Conflict, "User exists already, please login instead.")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, storeError(s.logger, err, "", "Signing up failed, please try again later.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Could not create user, please try again.", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Image:    in.Image,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, "User exists already, please login instead.")
		}
		return nil, storeError(s.logger, err, "", "Signing up failed, please try again later.")
	}

	return s.authResult(user)
}

// Authenticate checks email and password. Unknown emails and wrong passwords
// fail with the same Unauthorized error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.Unauthorized, invalidCredentials)
		}
		return nil, storeError(s.logger, err, "", "Logging in failed, please try again later.")
	}

	// accounts created through Firebase have no password
	if user.Password == "" {
		return nil, apperr.New(apperr.Unauthorized, invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.New(apperr.Unauthorized, invalidCredentials)
	}

	return s.authResult(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token. The user is
// found by Firebase UID, else linked by email when the token's email is
// verified, else created without a password.
func (s *UserService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.firebase == nil {
		return nil, apperr.New(apperr.BadRequest, "Firebase login is not enabled.")
	}

	fbToken, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "Invalid Firebase ID token.", err)
	}
	email, _ := fbToken.Claims["email"].(string)
	name, _ := fbToken.Claims["name"].(string)
	picture, _ := fbToken.Claims["picture"].(string)
	emailVerified, _ := fbToken.Claims["email_verified"].(bool)

	user, err := s.users.GetUserByFirebaseUID(ctx, fbToken.UID)
	if err == nil {
		return s.authResult(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError(s.logger, err, "", "Logging in failed, please try again later.")
	}

	if email == "" {
		return nil, apperr.New(apperr.Unauthorized, "Firebase account has no email address.")
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !emailVerified {
			return nil, apperr.New(apperr.Unauthorized, "Verify your email address before signing in with Firebase.")
		}
		user.FirebaseUID = fbToken.UID
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, storeError(s.logger, err, "", "Failed to link Firebase account.")
		}
	case errors.Is(err, repositories.ErrNotFound):
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		user = &models.User{Name: name, Email: email, Image: picture, FirebaseUID: fbToken.UID}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperr.New(apperr.Conflict, "User exists already, please login instead.")
			}
			return nil, storeError(s.logger, err, "", "Failed to create user.")
		}
	default:
		return nil, storeError(s.logger, err, "", "Logging in failed, please try again later.")
	}

	return s.authResult(user)
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	t, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("failed to issue token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "Could not log you in, please try again.", err)
	}
	user.Password = ""
	return &AuthResult{User: user, Token: t}, nil
}
