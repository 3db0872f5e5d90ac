// Package files persists file metadata records.
package files

import (
	"context"

	"github.com/avcastro/vaultbox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)

	// ListAccessible returns the union of files owned by the principal and
	// files shared with it, each file at most once.
	ListAccessible(ctx context.Context, principal models.PrincipalID) ([]*models.File, error)

	Delete(ctx context.Context, id string) error

	// ToggleStar flips the starred flag and returns the new value.
	ToggleStar(ctx context.Context, id string) (bool, error)
	SetPrivacy(ctx context.Context, id string, private bool) error

	TotalSize(ctx context.Context, owner models.PrincipalID) (int64, error)
	ExtensionHistogram(ctx context.Context, owner models.PrincipalID, limit int) ([]*models.ExtensionCount, error)
}
