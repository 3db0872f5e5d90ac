// Package contacts persists contact-form inquiries.
package contacts

import (
	"context"

	"github.com/avcastro/vaultbox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	List(ctx context.Context) ([]*models.Contact, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}
