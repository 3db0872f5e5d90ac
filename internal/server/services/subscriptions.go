package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/dbx"
	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/models"
	"github.com/avcastro/vaultbox/internal/server/payments"
	"github.com/avcastro/vaultbox/internal/server/repositories/repomanager"
	"github.com/avcastro/vaultbox/internal/server/repositories/subscriptions"
)

const paymentCurrency = "USD"

// PaymentIntent is a started checkout the frontend redirects the buyer to.
type PaymentIntent struct {
	OrderID    string `json:"order_id"`
	ApproveURL string `json:"approval_url"`
}

// SubscriptionService manages plans, the one-row-per-user subscription, and
// the payment flow that moves users between tiers.
type SubscriptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     payments.Gateway
	log         logging.Logger
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager,
	gateway payments.Gateway, log logging.Logger) *SubscriptionService {
	return &SubscriptionService{
		db:          db,
		repomanager: m,
		gateway:     gateway,
		log:         log,
	}
}

func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.repomanager.Subscriptions(s.db).ListActivePlans(ctx)
}

// Current returns the user's subscription, creating an active free one on
// first access. The free plan row itself is created if the table has none.
func (s *SubscriptionService) Current(ctx context.Context, user models.PrincipalID) (*models.Subscription, error) {
	repo := s.repomanager.Subscriptions(s.db)

	sub, err := repo.GetByUser(ctx, user)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Subscriptions(tx)
		plan, err := s.ensureFreePlan(ctx, repoTx)
		if err != nil {
			return err
		}
		sub = &models.Subscription{UserID: user, PlanID: plan.ID, Status: models.SubscriptionActive}
		if err := repoTx.Create(ctx, sub); err != nil {
			return err
		}
		sub.Plan = plan
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "free subscription created", "user", user)
	return sub, nil
}

// Upgrade moves the user to planID. Upgrading to the free tier is rejected;
// that path is Downgrade.
func (s *SubscriptionService) Upgrade(ctx context.Context, user models.PrincipalID, planID int64) (*models.Subscription, error) {
	repo := s.repomanager.Subscriptions(s.db)

	plan, err := repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Tier == models.TierFree {
		return nil, fmt.Errorf("%w: cannot upgrade to the free plan", common.ErrValidation)
	}

	// Guarantee a row exists before moving it.
	if _, err := s.Current(ctx, user); err != nil {
		return nil, err
	}
	if err := repo.SetPlan(ctx, user, plan.ID, models.SubscriptionActive); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "subscription upgraded", "user", user, "plan", plan.Name)
	return repo.GetByUser(ctx, user)
}

// Downgrade moves the user back to the free plan.
func (s *SubscriptionService) Downgrade(ctx context.Context, user models.PrincipalID) (*models.Subscription, error) {
	repo := s.repomanager.Subscriptions(s.db)

	if _, err := s.Current(ctx, user); err != nil {
		return nil, err
	}
	plan, err := s.ensureFreePlan(ctx, repo)
	if err != nil {
		return nil, err
	}
	if err := repo.SetPlan(ctx, user, plan.ID, models.SubscriptionActive); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "subscription downgraded", "user", user)
	return repo.GetByUser(ctx, user)
}

// CreatePayment opens a checkout for planID at the payment gateway.
func (s *SubscriptionService) CreatePayment(ctx context.Context, user models.PrincipalID, planID int64) (*PaymentIntent, error) {
	plan, err := s.repomanager.Subscriptions(s.db).GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Tier == models.TierFree {
		return nil, fmt.Errorf("%w: the free plan is not purchasable", common.ErrValidation)
	}

	order, err := s.gateway.CreateOrder(ctx, plan.Price, paymentCurrency, plan.Name+" subscription")
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "payment created", "user", user, "plan", plan.Name, "order_id", order.ID)
	return &PaymentIntent{OrderID: order.ID, ApproveURL: order.ApproveURL}, nil
}

// ExecutePayment captures an approved order and, on completion, upgrades
// the user's subscription to planID.
func (s *SubscriptionService) ExecutePayment(ctx context.Context, user models.PrincipalID, orderID string, planID int64) (*models.Subscription, error) {
	capture, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if capture.Status != "COMPLETED" {
		return nil, fmt.Errorf("%w: payment not completed, status %s", common.ErrValidation, capture.Status)
	}

	s.log.Info(ctx, "payment captured", "user", user, "order_id", orderID)
	return s.Upgrade(ctx, user, planID)
}

// ensureFreePlan returns the free-tier plan, creating the default row when
// the table has none yet.
func (s *SubscriptionService) ensureFreePlan(ctx context.Context, repo subscriptions.Repository) (*models.SubscriptionPlan, error) {
	plan, err := repo.GetPlanByTier(ctx, models.TierFree)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	plan = &models.SubscriptionPlan{
		Name:     "Free",
		Tier:     models.TierFree,
		Price:    "0.00",
		Features: []string{"1 GB storage", "Community support"},
		Active:   true,
	}
	if err := repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}
