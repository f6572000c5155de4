package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/testutil"
)

func newUserFixture(t *testing.T) (*UserService, *testutil.MemSessions) {
	t.Helper()
	sessions := testutil.NewMemSessions()
	svc := NewUserService(testutil.NewMemStore(), sessions, 0)
	return svc, sessions
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	svc, sessions := newUserFixture(t)
	ctx := context.Background()

	got, err := svc.Register(ctx, RegisterInput{
		Email:    "  Alex@Example.COM ",
		Name:     "Alex",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if got.User.Email != "alex@example.com" {
		t.Errorf("Email = %q, want lowercased", got.User.Email)
	}
	if got.User.Settings != model.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", got.User.Settings)
	}
	if !auth.ValidateTokenFormat(got.Token) {
		t.Errorf("token %q has wrong format", got.Token)
	}

	// The session is live.
	id, err := sessions.GetSession(ctx, auth.QuickHash(got.Token))
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if id.UserID != got.User.ID {
		t.Errorf("session UserID = %q, want %q", id.UserID, got.User.ID)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newUserFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "long enough pw"}, ErrInvalidInput},
		{"short password", RegisterInput{Email: "a@example.com", Password: "short"}, ErrInvalidInput},
		{"long password", RegisterInput{Email: "a@example.com", Password: strings.Repeat("x", 129)}, ErrInvalidInput},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(ctx, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newUserFixture(t)
	ctx := context.Background()

	input := RegisterInput{Email: "dupe@example.com", Password: "long enough pw"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, input)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "alex@example.com", Password: "long enough pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		got, err := svc.Login(ctx, "ALEX@example.com", "long enough pw")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if !auth.ValidateTokenFormat(got.Token) {
			t.Errorf("token %q has wrong format", got.Token)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(ctx, "alex@example.com", "wrong password!")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email indistinguishable", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(ctx, "nobody@example.com", "long enough pw")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestUserService_Logout(t *testing.T) {
	t.Parallel()

	svc, sessions := newUserFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "alex@example.com", Password: "long enough pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := sessions.GetSession(ctx, auth.QuickHash(res.Token)); err == nil {
		t.Error("session still live after logout")
	}

	// Garbage tokens are a no-op.
	if err := svc.Logout(ctx, "garbage"); err != nil {
		t.Errorf("Logout(garbage) = %v, want nil", err)
	}
}

func TestUserService_UpdateSettings(t *testing.T) {
	t.Parallel()

	svc, _ := newUserFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "alex@example.com", Password: "long enough pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	userID := res.User.ID

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := svc.UpdateSettings(ctx, userID, UpdateSettingsInput{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("invalid theme rejected", func(t *testing.T) {
		theme := "solarized"
		_, err := svc.UpdateSettings(ctx, userID, UpdateSettingsInput{Theme: &theme})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("partial update keeps the rest", func(t *testing.T) {
		off := false
		got, err := svc.UpdateSettings(ctx, userID, UpdateSettingsInput{EmailReminders: &off})
		if err != nil {
			t.Fatalf("UpdateSettings: %v", err)
		}
		if got.EmailReminders {
			t.Error("EmailReminders still true")
		}
		if got.ReminderDaysBefore != 7 || got.Theme != "light" {
			t.Errorf("other settings changed: %+v", got)
		}

		user, err := svc.GetUser(ctx, userID)
		if err != nil {
			t.Fatalf("GetUser: %v", err)
		}
		if user.Settings.EmailReminders {
			t.Error("persisted EmailReminders still true")
		}
	})
}
