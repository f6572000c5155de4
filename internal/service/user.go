package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/repository"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// UserService handles accounts, sessions, and reminder settings.
type UserService struct {
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, sessions SessionStore, sessionTTL time.Duration) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UserService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// AuthResult is returned by Register and Login: the account plus a fresh
// bearer token. The raw token is returned exactly once and never stored.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates an account with default settings and opens a session.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength || len(input.Password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Settings:     model.DefaultSettings(),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the session behind the given token. Unknown tokens are a
// no-op.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, auth.QuickHash(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetUser returns the account by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateSettingsInput defines input for updating reminder settings. Nil
// fields are unchanged.
type UpdateSettingsInput struct {
	EmailReminders     *bool
	PushNotifications  *bool
	ReminderDaysBefore *int
	Theme              *string
}

// UpdateSettings applies a partial update to the user's settings and returns
// the resulting settings.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, input UpdateSettingsInput) (*model.UserSettings, error) {
	if input.EmailReminders == nil && input.PushNotifications == nil &&
		input.ReminderDaysBefore == nil && input.Theme == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := user.Settings
	if input.EmailReminders != nil {
		settings.EmailReminders = *input.EmailReminders
	}
	if input.PushNotifications != nil {
		settings.PushNotifications = *input.PushNotifications
	}
	if input.ReminderDaysBefore != nil {
		if *input.ReminderDaysBefore < 0 {
			return nil, fmt.Errorf("%w: reminder_days_before must not be negative", ErrInvalidInput)
		}
		settings.ReminderDaysBefore = *input.ReminderDaysBefore
	}
	if input.Theme != nil {
		theme := strings.TrimSpace(*input.Theme)
		if theme != "light" && theme != "dark" {
			return nil, fmt.Errorf("%w: theme must be light or dark", ErrInvalidInput)
		}
		settings.Theme = theme
	}

	if err := s.users.UpdateUserSettings(ctx, userID, settings); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &settings, nil
}

func (s *UserService) openSession(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	id := &model.Identity{UserID: user.ID, Email: user.Email}
	if err := s.sessions.CreateSession(ctx, auth.QuickHash(token), id, s.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}
