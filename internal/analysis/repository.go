package analysis

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists a validated result with the denormalized ingredient count
// and returns the assigned id.
func (r *Repository) Create(ctx context.Context, userID int64, ingredients string, res *Result) (int64, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO product_analyses (user_id, ingredients, analysis, overall_rating, ingredient_count, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id
	`, userID, ingredients, payload, res.OverallRating, len(res.Ingredients)).Scan(&id)
	return id, err
}

// ListByUser returns the user's scan history, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*StoredAnalysis, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, ingredients, analysis, overall_rating, ingredient_count, created_at
		FROM product_analyses WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*StoredAnalysis
	for rows.Next() {
		var a StoredAnalysis
		var payload []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Ingredients, &payload, &a.OverallRating, &a.IngredientCount, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &a.Analysis); err != nil {
			return nil, err
		}
		a.Analysis.ID = a.ID
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_analyses`).Scan(&n)
	return n, err
}

// Recent returns the latest analyses with the owning user's email when the
// scan was authenticated.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*RecentAnalysis, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pa.id, pa.ingredients, pa.overall_rating, u.email, pa.created_at
		FROM product_analyses pa
		LEFT JOIN users u ON pa.user_id = u.id
		ORDER BY pa.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*RecentAnalysis
	for rows.Next() {
		var a RecentAnalysis
		if err := rows.Scan(&a.ID, &a.Ingredients, &a.OverallRating, &a.UserEmail, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
