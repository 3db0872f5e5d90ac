package shares

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/dbx"
	"github.com/avcastro/vaultbox/internal/server/models"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository implements grant storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, share *models.FileShare) error {
	query := `
		INSERT INTO file_shares (id, file_id, owner_id, grantee_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		share.ID, share.FileID, share.OwnerID, share.GranteeID).
		Scan(&share.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrAlreadyShared
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, fileID string, grantee models.PrincipalID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM file_shares WHERE file_id = $1 AND grantee_id = $2`, fileID, grantee)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrShareNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByFile(ctx context.Context, fileID string) ([]*models.FileShare, error) {
	query := `
		SELECT id, file_id, owner_id, grantee_id, created_at
		FROM file_shares WHERE file_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, fileID)
}

func (r *PostgresRepository) ListByGrantee(ctx context.Context, grantee models.PrincipalID) ([]*models.FileShare, error) {
	query := `
		SELECT id, file_id, owner_id, grantee_id, created_at
		FROM file_shares WHERE grantee_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, grantee)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.FileShare, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FileShare
	for rows.Next() {
		s := &models.FileShare{}
		if err := rows.Scan(&s.ID, &s.FileID, &s.OwnerID, &s.GranteeID, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
