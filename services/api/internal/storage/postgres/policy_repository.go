package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PolicyRepository stores the single free-period policy row. A missing row
// reads as the zero (inactive) policy rather than an error.
type PolicyRepository struct {
	pool *pgxpool.Pool
}

func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

// policyRowID pins the singleton row.
const policyRowID = 1

func (r *PolicyRepository) Get(ctx context.Context) (domain.FreePeriodPolicy, error) {
	const query = `
SELECT is_active, free_listing_start, free_listing_end, updated_at
FROM free_period_policy
WHERE id = $1`

	var (
		p          domain.FreePeriodPolicy
		start, end *time.Time
	)
	err := r.pool.QueryRow(ctx, query, policyRowID).Scan(&p.IsActive, &start, &end, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.FreePeriodPolicy{}, nil
		}
		return domain.FreePeriodPolicy{}, fmt.Errorf("get policy: %w", err)
	}

	if p.FreeListingStart, err = domain.NormalizeDate(start); err != nil {
		return domain.FreePeriodPolicy{}, err
	}
	if p.FreeListingEnd, err = domain.NormalizeDate(end); err != nil {
		return domain.FreePeriodPolicy{}, err
	}
	return p, nil
}

func (r *PolicyRepository) Save(ctx context.Context, p domain.FreePeriodPolicy) error {
	const stmt = `
INSERT INTO free_period_policy (id, is_active, free_listing_start, free_listing_end, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET is_active = EXCLUDED.is_active,
    free_listing_start = EXCLUDED.free_listing_start,
    free_listing_end = EXCLUDED.free_listing_end,
    updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, stmt,
		policyRowID,
		p.IsActive,
		dateArg(p.FreeListingStart),
		dateArg(p.FreeListingEnd),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}
