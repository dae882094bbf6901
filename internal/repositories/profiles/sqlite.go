package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
)

// ErrNotFound is returned by Get for an unknown owner.
var ErrNotFound = fmt.Errorf("profile %w", common.ErrorNotFound)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (owner, salt, verifier, created_at) VALUES (?, ?, ?, ?)`,
		p.Owner, p.Salt, p.Verifier, p.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to create profile[%s]: %w", p.Owner, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, owner string) (Profile, error) {
	var (
		p         Profile
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT owner, salt, verifier, created_at FROM profiles WHERE owner = ?`, owner).
		Scan(&p.Owner, &p.Salt, &p.Verifier, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile[%s]: %w", owner, err)
	}

	p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Profile{}, fmt.Errorf("profile[%s] created_at: %w", owner, err)
	}
	return p, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, owner string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE owner = ?`, owner)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile[%s]: %w", owner, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete profile[%s]: %w", owner, err)
	}
	return n > 0, nil
}
