package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"
	_ "modernc.org/sqlite"
)

// Directory is the user database the provisioning flow registers against
type Directory interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	WriteRecord(ctx context.Context, path, value string) error
}

// Length of generated user IDs, matching the hosted auth service
const userIDLen = 28

// Argon2id parameters for stored user passwords
const (
	directoryHashTime    = 1
	directoryHashMemory  = 64 * 1024 // KB
	directoryHashThreads = 4
	directoryHashLen     = 32
	directorySaltLen     = 16
)

// sqliteDirectory is a local Directory backed by a sqlite file
type sqliteDirectory struct {
	db *sql.DB
}

func openSQLiteDirectory(ctx context.Context, path string) (*sqliteDirectory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}

	d := &sqliteDirectory{db: db}
	if err := d.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init directory schema: %w", err)
	}
	return d, nil
}

func (d *sqliteDirectory) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		uid TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash BLOB NOT NULL,
		password_salt BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS records (
		path TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := d.db.ExecContext(ctx, schema)
	return err
}

func (d *sqliteDirectory) Close() error {
	return d.db.Close()
}

// CreateUser registers email with an Argon2id hash of password and returns the new uid
func (d *sqliteDirectory) CreateUser(ctx context.Context, email, password string) (string, error) {
	var exists int
	err := d.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return "", fmt.Errorf("%w: %s", ErrUserExists, email)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	uid, err := RandomString(userIDLen)
	if err != nil {
		return "", err
	}

	salt := make([]byte, directorySaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, directoryHashTime, directoryHashMemory, directoryHashThreads, directoryHashLen)

	_, err = d.db.ExecContext(ctx,
		"INSERT INTO users (uid, email, password_hash, password_salt, created_at) VALUES (?, ?, ?, ?, ?)",
		uid, email, hash, salt, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return uid, nil
}

// WriteRecord stores value at path, replacing any previous value
func (d *sqliteDirectory) WriteRecord(ctx context.Context, path, value string) error {
	query := `
	INSERT INTO records (path, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`
	if _, err := d.db.ExecContext(ctx, query, path, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("write record %s: %w", path, err)
	}
	return nil
}

// ReadRecord returns the value at path and whether it exists
func (d *sqliteDirectory) ReadRecord(ctx context.Context, path string) (string, bool, error) {
	var value string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM records WHERE path = ?", path).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read record %s: %w", path, err)
	}
	return value, true, nil
}
