package quota

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository performs every counter mutation as a single conditional
// statement so that check-then-increment is serialized by the database, not
// by application code.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// IncrementDaily bumps the (ip, date) counter, refusing to pass limit.
// The conditional upsert means two concurrent requests on the boundary can
// never both be admitted: one of them sees the incremented count and gets
// zero rows back.
func (r *Repository) IncrementDaily(ctx context.Context, ip, date string, limit int) (int, bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO anonymous_scans (ip, date, count) VALUES ($1, $2, 1)
		ON CONFLICT (ip, date) DO UPDATE SET count = anonymous_scans.count + 1
		WHERE anonymous_scans.count < $3
		RETURNING count
	`, ip, date, limit).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// DailyCount returns the current counter for (ip, date), 0 when absent.
func (r *Repository) DailyCount(ctx context.Context, ip, date string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count FROM anonymous_scans WHERE ip = $1 AND date = $2
	`, ip, date).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

// SpendCredit decrements one credit iff the balance is positive.
func (r *Repository) SpendCredit(ctx context.Context, userID int64) (int, bool, error) {
	var balance int
	err := r.pool.QueryRow(ctx, `
		UPDATE users SET credits = credits - 1, updated_at = now()
		WHERE id = $1 AND credits > 0
		RETURNING credits
	`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

// AdjustCredits applies delta iff the resulting balance stays non-negative.
func (r *Repository) AdjustCredits(ctx context.Context, userID int64, delta int) (int, bool, error) {
	var balance int
	err := r.pool.QueryRow(ctx, `
		UPDATE users SET credits = credits + $2, updated_at = now()
		WHERE id = $1 AND credits + $2 >= 0
		RETURNING credits
	`, userID, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

// PurgeBefore deletes anonymous scan counters older than date.
func (r *Repository) PurgeBefore(ctx context.Context, date string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM anonymous_scans WHERE date < $1`, date)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
