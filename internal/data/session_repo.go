package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/immochat/immochat-web/internal/data/pgxutil"
	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
	"github.com/immochat/immochat-web/internal/ports"
)

// SessionRepo is the Postgres-backed session store.
type SessionRepo struct {
	DB  *sql.DB
	now func() time.Time
}

var (
	_ ports.SessionStore   = (*SessionRepo)(nil)
	_ ports.SessionCreator = (*SessionRepo)(nil)
	_ ports.SessionPurger  = (*SessionRepo)(nil)
)

// NewSessionRepo creates a SessionRepo over an open pgx/stdlib pool.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db, now: time.Now}
}

const sessionColumns = `id, user_id, first_name, last_name, email, role, expires_at`

// Save upserts the session; an existing row with the same id is overwritten.
func (r *SessionRepo) Save(ctx context.Context, sess domainauth.Session) error {
	if err := r.validate(sess); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			expires_at = EXCLUDED.expires_at`,
		sess.ID, sess.UserID, sess.FirstName, sess.LastName, sess.Email, string(sess.Role), sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Create inserts a new session and fails with ports.ErrSessionExists on id collision.
func (r *SessionRepo) Create(ctx context.Context, sess domainauth.Session) error {
	if err := r.validate(sess); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sess.ID, sess.UserID, sess.FirstName, sess.LastName, sess.Email, string(sess.Role), sess.ExpiresAt.UTC())
	if err != nil {
		if pgxutil.IsUniqueViolation(err) {
			return fmt.Errorf("create session %s: %w", sess.ID, ports.ErrSessionExists)
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepo) validate(sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(r.now()) {
		return errors.New("session is expired")
	}
	return nil
}

// Get returns ports.ErrSessionNotFound for unknown and expired ids.
func (r *SessionRepo) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	var (
		sess domainauth.Session
		role string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND expires_at > $2`,
		id, r.now().UTC(),
	).Scan(&sess.ID, &sess.UserID, &sess.FirstName, &sess.LastName, &sess.Email, &role, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}
	sess.Role = domainauth.Role(role)
	return sess, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and returns how many were removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// PingCheck is the database health check: connectivity plus presence of the sessions table.
type PingCheck struct {
	DB        *sql.DB
	CheckName string
}

var _ ports.HealthCheck = (*PingCheck)(nil)

func (c *PingCheck) Name() string {
	if c.CheckName != "" {
		return c.CheckName
	}
	return "database"
}

func (c *PingCheck) Check(ctx context.Context) (string, error) {
	if c.DB == nil {
		return "set DB_HOST to enable the Postgres session store", errors.New("database not configured")
	}
	if err := c.DB.PingContext(ctx); err != nil {
		return pgxutil.Hint(err), fmt.Errorf("ping: %w", err)
	}
	var n int
	if err := c.DB.QueryRowContext(ctx, `SELECT count(*) FROM sessions WHERE false`).Scan(&n); err != nil {
		return pgxutil.Hint(err), fmt.Errorf("query sessions table: %w", err)
	}
	return "", nil
}
