package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/karalib/internal/auth"
	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/repositories"
	"github.com/desertthunder/karalib/internal/shared"
	"github.com/desertthunder/karalib/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	logger      *log.Logger
	output      io.Writer
	dialog      *stdinDialog
	sessionPath string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	SessionPath string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.SessionPath == "" {
		opts.SessionPath = defaultSessionPath()
	}

	return &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		dialog:      newStdinDialog(opts.Input, opts.Output),
		sessionPath: opts.SessionPath,
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".karalib-session"
	}
	return filepath.Join(home, ".karalib", "session")
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, artistsCommand, stylesCommand, categoriesCommand, backupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDB opens and configures the library database.
func (r *Runner) openDB() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

func (r *Runner) authService(db *sql.DB) *auth.Service {
	ttl := time.Duration(r.config.Auth.SessionTTLHours) * time.Hour
	return auth.NewService(
		repositories.NewUserRepository(db),
		repositories.NewSessionRepository(db),
		ttl,
		r.logger,
	)
}

// library bundles the per-invocation dependencies of an authenticated command.
type library struct {
	db      *sql.DB
	auth    *auth.Service
	session *models.Session
	engine  *tasks.LibraryEngine
}

func (l *library) Close() {
	l.db.Close()
}

// openLibrary restores the saved session and loads the user's library. The
// returned library must be closed by the caller.
func (r *Runner) openLibrary(ctx context.Context) (*library, error) {
	db, err := r.openDB()
	if err != nil {
		return nil, err
	}

	svc := r.authService(db)

	token, err := r.readSessionToken()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: faça login com 'karalib auth login'", shared.ErrNotAuthenticated)
	}

	session, err := svc.Restore(ctx, token)
	if err != nil {
		db.Close()
		if errors.Is(err, shared.ErrSessionExpired) {
			r.clearSessionToken()
			return nil, fmt.Errorf("%w: sessão expirada, faça login novamente", shared.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	engine := tasks.NewLibraryEngine(session.UserID, repositories.NewSongRepository(db), repositories.NewCategoryRepository(db), r.dialog, tasks.Options{
		DefaultDuration: r.config.Library.DefaultDuration,
		ThumbnailBase:   r.config.Library.ThumbnailBase,
		WriteRateLimit:  r.config.Library.WriteRateLimit,
	}, r.logger)

	if err := engine.FetchAll(ctx, nil); err != nil {
		db.Close()
		return nil, err
	}

	return &library{db: db, auth: svc, session: session, engine: engine}, nil
}

// withLibrary runs fn against an authenticated library and closes it after.
func (r *Runner) withLibrary(ctx context.Context, fn func(*library) error) error {
	lib, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(lib)
}

func (r *Runner) readSessionToken() (string, error) {
	data, err := os.ReadFile(r.sessionPath)
	if err != nil {
		return "", err
	}
	token := string(data)
	if token == "" {
		return "", fmt.Errorf("empty session file")
	}
	return token, nil
}

func (r *Runner) saveSessionToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(r.sessionPath), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(r.sessionPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *Runner) clearSessionToken() {
	if err := os.Remove(r.sessionPath); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to remove session file", "error", err)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
