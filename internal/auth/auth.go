// Package auth signs users up and in against a credential store and keeps
// the session token in device storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samy1995/Mealwise/internal/logger"
	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type CredentialStore interface {
	CreateUser(ctx context.Context, u model.User) error
	UserByEmail(ctx context.Context, email string) (model.User, error)
	UserByID(ctx context.Context, id string) (model.User, error)
}

type Service struct {
	Users    CredentialStore
	Profiles service.ProfileStore
	Store    service.KeyValueStore
	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time
	Log      *logger.Logger
}

type SignUpInput struct {
	Email          string
	Password       string
	DateOfBirth    string
	FirstName      string
	LastName       string
	DietPreference string
	Allergens      []string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return service.SessionMaxAge
}

// SignUp creates the account and profile, then signs the user in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*service.Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, &service.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if err := service.ValidateDateOfBirth(in.DateOfBirth, s.now()); err != nil {
		return nil, err
	}
	diet := strings.TrimSpace(strings.ToLower(in.DietPreference))
	if diet == "" {
		diet = service.DefaultDiet
	}
	if err := service.ValidateDiet(diet); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := model.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	profile := model.Profile{
		ID:             user.ID,
		Email:          email,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		DietPreference: diet,
		Allergens:      service.NormalizeAllergens(in.Allergens),
		DateOfBirth:    strings.TrimSpace(in.DateOfBirth),
	}
	if err := s.Profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.startSession(user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.UserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(user)
}

func (s *Service) SignOut(ctx context.Context) error {
	if err := s.Store.Delete(service.KeySessionToken); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// CurrentSession returns ErrNotAuthenticated when there is no valid token.
func (s *Service) CurrentSession(ctx context.Context) (*service.Session, error) {
	raw, ok, err := s.Store.Get(service.KeySessionToken)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, service.ErrNotAuthenticated
	}
	return parseToken(s.Secret, raw, s.now())
}

// CurrentUser loads the signed-in profile, creating a default one if the
// row is missing.
func (s *Service) CurrentUser(ctx context.Context) (model.Profile, error) {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	return service.EnsureProfile(ctx, s.Profiles, sess.UserID, sess.Email)
}

func (s *Service) startSession(user model.User) (*service.Session, error) {
	now := s.now()
	token, err := issueToken(s.Secret, user.ID, user.Email, now, s.ttl())
	if err != nil {
		return nil, err
	}
	if err := s.Store.Set(service.KeySessionToken, token); err != nil {
		return nil, fmt.Errorf("store session token: %w", err)
	}
	if s.Log != nil {
		s.Log.Info("session started", "user_id", user.ID)
	}
	return &service.Session{UserID: user.ID, Email: user.Email, StartedAt: now}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", &service.ValidationError{Field: "email", Message: fmt.Sprintf("invalid email %q", email)}
	}
	return email, nil
}
