// internal/repository/postgres/plan_catalog_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"esim-pricing-service/internal/domain/plan"
	xerrors "esim-pricing-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PlanCatalogRepository is a read-only view over the external plan catalog.
type PlanCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPlanCatalogRepository(db *pgxpool.Pool) *PlanCatalogRepository {
	return &PlanCatalogRepository{db: db}
}

// GetPlan retrieves a catalog plan by package code.
func (r *PlanCatalogRepository) GetPlan(ctx context.Context, packageCode string) (*plan.Plan, error) {
	query := `
		SELECT package_code, name, base_price_usd::text, volume_bytes, duration, duration_unit
		FROM data_plans
		WHERE package_code = $1
	`

	p, err := scanPlan(r.db.QueryRow(ctx, query, packageCode))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return p, nil
}

// ListPlans retrieves all sellable catalog plans.
func (r *PlanCatalogRepository) ListPlans(ctx context.Context) ([]*plan.Plan, error) {
	query := `
		SELECT package_code, name, base_price_usd::text, volume_bytes, duration, duration_unit
		FROM data_plans
		ORDER BY package_code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

func scanPlan(row pgx.Row) (*plan.Plan, error) {
	var p plan.Plan
	var price string

	err := row.Scan(&p.PackageCode, &p.Name, &price, &p.VolumeBytes, &p.Duration, &p.DurationUnit)
	if err != nil {
		return nil, err
	}

	p.BasePriceUSD, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid base price %q: %w", price, err)
	}
	return &p, nil
}
