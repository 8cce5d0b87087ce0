package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListingRepository persists listings. Status changes triggered by
// approve/reject, payment completion and the sweep are conditional on the
// expected current status, so concurrent transitions on the same listing
// cannot silently overwrite each other.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `id, title, description, address, suburb, postcode, state,
latitude, longitude, start_date, end_date, start_time, end_time,
status, payment_status, is_free_listing, rejection_reason, created_by, created_at, updated_at`

func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) error {
	const stmt = `
INSERT INTO listings (` + listingColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.pool.Exec(ctx, stmt,
		l.ID,
		l.Title,
		l.Description,
		l.Address,
		l.Suburb,
		l.Postcode,
		l.State,
		l.Latitude,
		l.Longitude,
		dateArg(l.StartDate),
		dateArg(l.EndDate),
		l.StartTime,
		l.EndTime,
		l.Status,
		l.PaymentStatus,
		l.IsFreeListing,
		l.RejectionReason,
		l.CreatedBy,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	const query = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Listing{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

func (r *ListingRepository) Update(ctx context.Context, l domain.Listing) error {
	const stmt = `
UPDATE listings
SET title = $2, description = $3, address = $4, suburb = $5, postcode = $6, state = $7,
    latitude = $8, longitude = $9, start_date = $10, end_date = $11,
    start_time = $12, end_time = $13, updated_at = $14
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		l.ID,
		l.Title,
		l.Description,
		l.Address,
		l.Suburb,
		l.Postcode,
		l.State,
		l.Latitude,
		l.Longitude,
		dateArg(l.StartDate),
		dateArg(l.EndDate),
		l.StartTime,
		l.EndTime,
		l.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) PublishFree(ctx context.Context, id string) (bool, error) {
	const stmt = `
UPDATE listings
SET status = 'active', payment_status = 'free', is_free_listing = TRUE, updated_at = NOW()
WHERE id = $1 AND status = 'draft'`

	return r.conditionalUpdate(ctx, "publish free", stmt, id)
}

func (r *ListingRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	const stmt = `
UPDATE listings
SET status = 'pending_approval', payment_status = 'paid', updated_at = NOW()
WHERE id = $1 AND status = 'draft'`

	return r.conditionalUpdate(ctx, "mark paid", stmt, id)
}

func (r *ListingRepository) SetApproved(ctx context.Context, id string) (bool, error) {
	const stmt = `
UPDATE listings
SET status = 'active', updated_at = NOW()
WHERE id = $1 AND status = 'pending_approval'`

	return r.conditionalUpdate(ctx, "approve", stmt, id)
}

func (r *ListingRepository) SetRejected(ctx context.Context, id, reason string) (bool, error) {
	const stmt = `
UPDATE listings
SET status = 'rejected', rejection_reason = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending_approval'`

	return r.conditionalUpdate(ctx, "reject", stmt, id, reason)
}

func (r *ListingRepository) ListPubliclyVisible(ctx context.Context) ([]domain.Listing, error) {
	const query = `
SELECT ` + listingColumns + `
FROM listings
WHERE status = 'active' AND payment_status IN ('paid', 'free', 'completed')
ORDER BY start_date, created_at`

	return r.list(ctx, "list visible listings", query)
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]domain.Listing, error) {
	const query = `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`
	return r.list(ctx, "list all listings", query)
}

func (r *ListingRepository) CompleteExpired(ctx context.Context, before domain.Date) (int64, error) {
	const stmt = `
UPDATE listings
SET status = 'completed', updated_at = NOW()
WHERE status = 'active' AND end_date < $1`

	tag, err := r.pool.Exec(ctx, stmt, before.StartOfDay())
	if err != nil {
		return 0, fmt.Errorf("complete expired listings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ListingRepository) conditionalUpdate(ctx context.Context, op, stmt string, args ...any) (bool, error) {
	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ListingRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var (
		l                  domain.Listing
		startDate, endDate *time.Time
	)
	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.Address,
		&l.Suburb,
		&l.Postcode,
		&l.State,
		&l.Latitude,
		&l.Longitude,
		&startDate,
		&endDate,
		&l.StartTime,
		&l.EndTime,
		&l.Status,
		&l.PaymentStatus,
		&l.IsFreeListing,
		&l.RejectionReason,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}

	// Dates come back from the driver as native times; route them through
	// the one normalization the engine compares through.
	if l.StartDate, err = domain.NormalizeDate(startDate); err != nil {
		return domain.Listing{}, err
	}
	if l.EndDate, err = domain.NormalizeDate(endDate); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// dateArg maps a zero Date to NULL rather than year-zero garbage.
func dateArg(d domain.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.StartOfDay()
	return &t
}
