package blog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, title, excerpt, content, category, image_url, status, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.Category, &p.ImageURL, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListPublished returns published posts for the public listing.
func (r *Repository) ListPublished(ctx context.Context) ([]*Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE status = 'published' ORDER BY created_at DESC`)
}

// ListAll returns every post including drafts, for admin.
func (r *Repository) ListAll(ctx context.Context) ([]*Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY created_at DESC`)
}

// GetByID returns nil when the post does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, p *Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blog_posts (title, excerpt, content, category, image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at
	`, p.Title, p.Excerpt, p.Content, p.Category, p.ImageURL, p.Status)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) Update(ctx context.Context, p *Post) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE blog_posts
		SET title = $2, excerpt = $3, content = $4, category = $5, image_url = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Title, p.Excerpt, p.Content, p.Category, p.ImageURL, p.Status)
	return row.Scan(&p.UpdatedAt)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	return err
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&n)
	return n, err
}
