package subscriptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/dbx"
	"github.com/avcastro/vaultbox/internal/server/models"
)

// PostgresRepository implements subscription storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	features, err := json.Marshal(plan.Features)
	if err != nil {
		return fmt.Errorf("marshaling features: %w", err)
	}
	query := `
		INSERT INTO subscription_plans (name, tier, price, interval_days, features, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		plan.Name, plan.Tier, plan.Price, plan.IntervalDays, features, plan.Active).
		Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const planColumns = `id, name, tier, price::text, interval_days, features, is_active, created_at`

func (r *PostgresRepository) GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id)
	return scanPlan(row)
}

func (r *PostgresRepository) GetPlanByTier(ctx context.Context, tier string) (*models.SubscriptionPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE tier = $1 ORDER BY id LIMIT 1`, tier)
	return scanPlan(row)
}

func (r *PostgresRepository) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (*models.SubscriptionPlan, error) {
	p := &models.SubscriptionPlan{}
	var features []byte
	err := row.Scan(&p.ID, &p.Name, &p.Tier, &p.Price, &p.IntervalDays, &features, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, fmt.Errorf("unmarshaling features: %w", err)
		}
	}
	return p, nil
}

const subscriptionJoin = `
	SELECT s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date,
	       s.created_at, s.updated_at,
	       p.id, p.name, p.tier, p.price::text, p.interval_days, p.features, p.is_active, p.created_at
	FROM subscriptions s
	JOIN subscription_plans p ON p.id = s.plan_id
`

func (r *PostgresRepository) GetByUser(ctx context.Context, user models.PrincipalID) (*models.Subscription, error) {
	row := r.db.QueryRowContext(ctx, subscriptionJoin+` WHERE s.user_id = $1`, user)
	return scanSubscription(row)
}

func (r *PostgresRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, plan_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, start_date, created_at, updated_at
	`
	status := sub.Status
	if status == "" {
		status = models.SubscriptionActive
	}
	err := r.db.QueryRowContext(ctx, query, sub.UserID, sub.PlanID, status).
		Scan(&sub.ID, &sub.StartDate, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	sub.Status = status
	return nil
}

func (r *PostgresRepository) SetPlan(ctx context.Context, user models.PrincipalID, planID int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET plan_id = $2, status = $3, updated_at = now() WHERE user_id = $1`,
		user, planID, status)
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

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, subscriptionJoin+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanSubscription(row scanner) (*models.Subscription, error) {
	s := &models.Subscription{Plan: &models.SubscriptionPlan{}}
	var features []byte
	err := row.Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.StartDate, &s.EndDate,
		&s.CreatedAt, &s.UpdatedAt,
		&s.Plan.ID, &s.Plan.Name, &s.Plan.Tier, &s.Plan.Price, &s.Plan.IntervalDays,
		&features, &s.Plan.Active, &s.Plan.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &s.Plan.Features); err != nil {
			return nil, fmt.Errorf("unmarshaling features: %w", err)
		}
	}
	return s, nil
}
