// Package subscriptions persists subscription plans and per-user subscriptions.
package subscriptions

import (
	"context"

	"github.com/avcastro/vaultbox/internal/server/models"
)

type Repository interface {
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error)
	GetPlanByTier(ctx context.Context, tier string) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)

	// GetByUser returns the user's subscription with its plan joined, or
	// common.ErrNotFound.
	GetByUser(ctx context.Context, user models.PrincipalID) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error

	// SetPlan moves the user's subscription to planID with the given status.
	SetPlan(ctx context.Context, user models.PrincipalID, planID int64, status string) error

	// ListAll returns every subscription keyed by user, for the admin
	// user-directory listing.
	ListAll(ctx context.Context) ([]*models.Subscription, error)
}
