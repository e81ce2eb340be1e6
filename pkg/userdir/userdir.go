// Package userdir is the user directory behind the login and users-table
// screens. It keeps accounts in SQLite with bcrypt password hashes.
package userdir

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrBadCredentials is returned for both unknown emails and wrong
	// passwords, so login failures do not leak which one it was.
	ErrBadCredentials = errors.New("invalid email or password")
)

// User is a directory account. PasswordHash never leaves this package.
type User struct {
	ID        int64
	Email     string
	Name      string
	Roles     string
	CreatedAt time.Time

	passwordHash string
}

// Directory wraps the accounts table.
type Directory struct {
	db *sql.DB
}

// Open opens the SQLite database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Directory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open user database: %w", err)
	}
	return New(ctx, db)
}

// New wraps an existing database handle and ensures the schema exists.
func New(ctx context.Context, db *sql.DB) (*Directory, error) {
	d := &Directory{db: db}
	if err := d.migrate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directory) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		roles TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`
	_, err := d.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("migrate users table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Directory) Close() error {
	return d.db.Close()
}

// Create inserts a new account with a freshly hashed password.
func (d *Directory) Create(ctx context.Context, email, name, roles, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	createdAt := time.Now().UTC()
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO users (email, name, roles, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		email, name, roles, string(hash), createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id: %w", err)
	}

	return &User{
		ID:           id,
		Email:        email,
		Name:         name,
		Roles:        roles,
		CreatedAt:    createdAt,
		passwordHash: string(hash),
	}, nil
}

// FindByEmail looks up a single account.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, email, name, roles, password_hash, created_at FROM users WHERE email = ?`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the password for an email and returns the account.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := d.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// List returns one page of accounts ordered by id, plus the total count so
// tables can compute their page count.
func (d *Directory) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT id, email, name, roles, password_hash, created_at FROM users ORDER BY id LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Seed inserts the given accounts if the table is empty. Used at startup so
// the demo screens have something to show on a fresh database.
func (d *Directory) Seed(ctx context.Context, seeds []SeedUser) error {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, s := range seeds {
		if _, err := d.Create(ctx, s.Email, s.Name, s.Roles, s.Password); err != nil {
			return fmt.Errorf("seed user %s: %w", s.Email, err)
		}
	}
	return nil
}

// SeedUser is one account to create on first start.
type SeedUser struct {
	Email    string
	Name     string
	Roles    string
	Password string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u         User
		roles     sql.NullString
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &roles, &u.passwordHash, &createdAt); err != nil {
		return nil, err
	}
	u.Roles = roles.String
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
