package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/repositories"
	"github.com/desertthunder/karalib/internal/shared"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newService(db *sql.DB) *Service {
	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)
	return NewService(users, sessions, time.Hour, shared.NewLogger(nil))
}

func TestServiceSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("OpensSession", func(t *testing.T) {
		svc := newService(setupDB(t))

		session, err := svc.SignUp(ctx, "ana@example.com", "segredo1")
		if err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if session.Token == "" {
			t.Error("expected session token")
		}
		if svc.State() != StateAuthenticated {
			t.Errorf("expected authenticated state, got %s", svc.State())
		}
	})

	t.Run("WeakPassword", func(t *testing.T) {
		svc := newService(setupDB(t))

		_, err := svc.SignUp(ctx, "ana@example.com", "curta")
		if !errors.Is(err, shared.ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
		if svc.State() != StateAnonymous {
			t.Errorf("expected anonymous state, got %s", svc.State())
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc := newService(setupDB(t))

		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1"); err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if err := svc.SignOut(ctx); err != nil {
			t.Fatalf("sign out failed: %v", err)
		}

		_, err := svc.SignUp(ctx, "ana@example.com", "segredo2")
		if !errors.Is(err, shared.ErrEmailRegistered) {
			t.Errorf("expected ErrEmailRegistered, got %v", err)
		}
	})
}

func TestServiceSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidCredentials", func(t *testing.T) {
		svc := newService(setupDB(t))

		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1"); err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if err := svc.SignOut(ctx); err != nil {
			t.Fatalf("sign out failed: %v", err)
		}

		session, err := svc.SignIn(ctx, "ana@example.com", "segredo1")
		if err != nil {
			t.Fatalf("sign in failed: %v", err)
		}
		if session == nil || svc.State() != StateAuthenticated {
			t.Error("expected authenticated session")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc := newService(setupDB(t))

		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1"); err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if err := svc.SignOut(ctx); err != nil {
			t.Fatalf("sign out failed: %v", err)
		}

		_, err := svc.SignIn(ctx, "ana@example.com", "errada1")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if svc.State() != StateAnonymous {
			t.Errorf("expected anonymous state, got %s", svc.State())
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc := newService(setupDB(t))

		_, err := svc.SignIn(ctx, "ninguem@example.com", "segredo1")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestServiceStateChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("NotifiesListeners", func(t *testing.T) {
		svc := newService(setupDB(t))

		var states []State
		svc.OnStateChange(func(state State, _ *models.Session) {
			states = append(states, state)
		})

		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1"); err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if err := svc.SignOut(ctx); err != nil {
			t.Fatalf("sign out failed: %v", err)
		}

		want := []State{StateAuthenticating, StateAuthenticated, StateAnonymous}
		if len(states) != len(want) {
			t.Fatalf("expected %d transitions, got %v", len(want), states)
		}
		for i, state := range want {
			if states[i] != state {
				t.Errorf("transition %d: expected %s, got %s", i, state, states[i])
			}
		}
	})

	t.Run("SessionExpiry", func(t *testing.T) {
		svc := newService(setupDB(t))

		if _, err := svc.SignUp(ctx, "ana@example.com", "segredo1"); err != nil {
			t.Fatalf("sign up failed: %v", err)
		}

		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		if session := svc.Session(); session != nil {
			t.Error("expected nil session after expiry")
		}
		if svc.State() != StateAnonymous {
			t.Errorf("expected anonymous state after expiry, got %s", svc.State())
		}
	})

	t.Run("RestoreInNewProcess", func(t *testing.T) {
		db := setupDB(t)
		first := newService(db)

		session, err := first.SignUp(ctx, "ana@example.com", "segredo1")
		if err != nil {
			t.Fatalf("sign up failed: %v", err)
		}

		// A fresh service over the same store models a new CLI invocation.
		second := newService(db)
		restored, err := second.Restore(ctx, session.Token)
		if err != nil {
			t.Fatalf("restore failed: %v", err)
		}
		if restored.UserID != session.UserID {
			t.Errorf("expected user %s, got %s", session.UserID, restored.UserID)
		}
		if second.State() != StateAuthenticated {
			t.Errorf("expected authenticated state, got %s", second.State())
		}
	})

	t.Run("RestoreClosedSession", func(t *testing.T) {
		db := setupDB(t)
		svc := newService(db)

		session, err := svc.SignUp(ctx, "ana@example.com", "segredo1")
		if err != nil {
			t.Fatalf("sign up failed: %v", err)
		}
		if err := svc.SignOut(ctx); err != nil {
			t.Fatalf("sign out failed: %v", err)
		}

		if _, err := newService(db).Restore(ctx, session.Token); err == nil {
			t.Error("expected error restoring a closed session")
		}
	})
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid credentials", shared.ErrInvalidCredentials, "Email não encontrado ou senha incorreta."},
		{"already registered", shared.ErrEmailRegistered, "Email já cadastrado. Tente fazer login."},
		{"weak password", shared.ErrWeakPassword, "A senha deve ter pelo menos 6 caracteres."},
		{"rate limit", errors.New("request rate limit exceeded"), "Muitas tentativas. Aguarde um minuto e tente novamente."},
		{"unknown", errors.New("connection reset"), "Ocorreu um erro ao conectar. Tente novamente."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslateError(tt.err); got != tt.want {
				t.Errorf("TranslateError() = %q, want %q", got, tt.want)
			}
		})
	}

	if TranslateError(nil) != "" {
		t.Error("nil error should translate to empty string")
	}
}
