// Package identity talks to the external identity provider's admin API.
// The provider owns the user directory; this server only holds opaque
// principal ids.
package identity

import (
	"context"

	"github.com/avcastro/vaultbox/internal/server/models"
)

// Provider is the identity-provider contract consumed by the services layer.
type Provider interface {
	// ListPrincipals returns the full user directory. The admin API offers
	// no pagination contract, so this is a single unpaged listing; revisit
	// before pointing it at a large user base.
	ListPrincipals(ctx context.Context) ([]*models.Principal, error)

	GetPrincipal(ctx context.Context, id models.PrincipalID) (*models.Principal, error)

	// FindByEmail resolves an email to a principal, common.ErrGranteeNotFound
	// when no directory entry matches.
	FindByEmail(ctx context.Context, email string) (*models.Principal, error)

	UpdatePassword(ctx context.Context, id models.PrincipalID, password string) error
	UpdateMetadata(ctx context.Context, id models.PrincipalID, metadata map[string]any) error
	DeletePrincipal(ctx context.Context, id models.PrincipalID) error
}
