package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/dbx"
	"github.com/avcastro/vaultbox/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, owner_id, name, url, size, starred, is_private)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.OwnerID, file.Name, file.URL, file.Size, file.Starred, file.Private).
		Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `
		SELECT id, owner_id, name, url, size, created_at, starred, is_private
		FROM files WHERE id = $1
	`
	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&f.ID, &f.OwnerID, &f.Name, &f.URL, &f.Size, &f.CreatedAt, &f.Starred, &f.Private)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListAccessible selects owned and shared files in one pass. DISTINCT keeps a
// file from appearing twice when the owner also holds a (stray) share row.
func (r *PostgresRepository) ListAccessible(ctx context.Context, principal models.PrincipalID) ([]*models.File, error) {
	query := `
		SELECT DISTINCT f.id, f.owner_id, f.name, f.url, f.size, f.created_at, f.starred, f.is_private
		FROM files f
		LEFT JOIN file_shares s ON s.file_id = f.id AND s.grantee_id = $1
		WHERE f.owner_id = $1 OR s.grantee_id IS NOT NULL
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, principal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f := &models.File{}
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.URL, &f.Size, &f.CreatedAt, &f.Starred, &f.Private); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ToggleStar(ctx context.Context, id string) (bool, error) {
	var starred bool
	err := r.db.QueryRowContext(ctx,
		`UPDATE files SET starred = NOT starred WHERE id = $1 RETURNING starred`, id).
		Scan(&starred)
	if errors.Is(err, sql.ErrNoRows) {
		return false, common.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return starred, nil
}

func (r *PostgresRepository) SetPrivacy(ctx context.Context, id string, private bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE files SET is_private = $2 WHERE id = $1`, id, private)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) TotalSize(ctx context.Context, owner models.PrincipalID) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size), 0) FROM files WHERE owner_id = $1`, owner).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// ExtensionHistogram buckets the owner's files by lowercase extension.
// Files with no extension count under "(none)".
func (r *PostgresRepository) ExtensionHistogram(ctx context.Context, owner models.PrincipalID, limit int) ([]*models.ExtensionCount, error) {
	query := `
		SELECT COALESCE(NULLIF(lower(substring(name from '\.([^.]+)$')), ''), '(none)') AS ext,
		       COUNT(*) AS cnt
		FROM files
		WHERE owner_id = $1
		GROUP BY ext
		ORDER BY cnt DESC, ext ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ExtensionCount
	for rows.Next() {
		e := &models.ExtensionCount{}
		if err := rows.Scan(&e.Extension, &e.Count); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
