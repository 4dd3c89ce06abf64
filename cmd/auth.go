package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/karalib/internal/auth"
	"github.com/desertthunder/karalib/internal/repositories"
	"github.com/desertthunder/karalib/internal/shared"
	"github.com/desertthunder/karalib/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account, opens a session and saves its token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := r.authService(db)
	session, err := svc.SignUp(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		r.writePlain("%s\n", ui.Error(auth.TranslateError(err)))
		return err
	}

	if err := r.saveSessionToken(session.Token); err != nil {
		return err
	}

	r.logger.Info("account created", "email", cmd.String("email"))
	return r.writePlain("%s\n", ui.Success("✓ Conta criada e sessão iniciada"))
}

// AuthLogin signs in and saves the session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := r.authService(db)
	session, err := svc.SignIn(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		r.writePlain("%s\n", ui.Error(auth.TranslateError(err)))
		return err
	}

	if err := r.saveSessionToken(session.Token); err != nil {
		return err
	}

	r.logger.Info("signed in", "email", cmd.String("email"))
	return r.writePlain("%s\n", ui.Success("✓ Login realizado"))
}

// AuthLogout confirms, closes the remote session and clears local state.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.dialog.assumeYes = cmd.Bool("yes")

	ok, err := r.dialog.Confirm("Tem certeza que deseja sair do aplicativo?")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	return r.withLibrary(ctx, func(lib *library) error {
		if err := lib.auth.SignOut(ctx); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
		lib.engine.Logout()
		r.clearSessionToken()
		return r.writePlain("%s\n", ui.Success("✓ Sessão encerrada"))
	})
}

// AuthStatus shows whether a valid session exists and for whom.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := r.authService(db)

	token, err := r.readSessionToken()
	if err != nil {
		return r.writePlain("%s\n", ui.Warn("✗ Nenhuma sessão ativa"))
	}

	session, err := svc.Restore(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrSessionExpired) {
			r.clearSessionToken()
			return r.writePlain("%s\n", ui.Warn("✗ Sessão expirada"))
		}
		return r.writePlain("%s\n", ui.Warn("✗ Sessão inválida"))
	}

	user, err := repositories.NewUserRepository(db).Get(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	r.writePlain("%s\n", ui.Success("✓ Sessão ativa"))
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("Expira em: %s\n", session.ExpiresAt.Format("02/01/2006 15:04"))
	return nil
}
