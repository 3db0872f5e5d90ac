// Package shares persists file-share grants.
package shares

import (
	"context"

	"github.com/avcastro/vaultbox/internal/server/models"
)

type Repository interface {
	// Create inserts a grant. A second grant for the same (file, grantee)
	// pair fails with common.ErrAlreadyShared.
	Create(ctx context.Context, share *models.FileShare) error

	// Delete removes the grant for (file, grantee). Missing grants fail
	// with common.ErrShareNotFound.
	Delete(ctx context.Context, fileID string, grantee models.PrincipalID) error

	ListByFile(ctx context.Context, fileID string) ([]*models.FileShare, error)
	ListByGrantee(ctx context.Context, grantee models.PrincipalID) ([]*models.FileShare, error)
}
