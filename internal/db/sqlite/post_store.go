package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/skillmapio/skillmap/pkg/models"
)

// PostStore caches fetched posts between runs so re-analysis never costs
// another paid API call.
type PostStore struct {
	store *Store
}

// NewPostStore creates a new post store.
func NewPostStore(store *Store) *PostStore {
	return &PostStore{store: store}
}

// ReplaceAll swaps the cached post list for a freshly fetched one in a
// single transaction.
func (p *PostStore) ReplaceAll(ctx context.Context, posts []models.Post) error {
	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}

	const insert = `
		INSERT INTO posts
		(id, author, created_at, created_at_epoch, payload, fetched_at, fetched_at_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	for i := range posts {
		payload, err := json.Marshal(&posts[i])
		if err != nil {
			return fmt.Errorf("encode post %s: %w", posts[i].ID, err)
		}
		_, err = tx.ExecContext(ctx, insert,
			posts[i].ID, posts[i].Author,
			posts[i].CreatedAt.Format(time.RFC3339), posts[i].CreatedAt.UnixMilli(),
			string(payload),
			now.Format(time.RFC3339), now.UnixMilli(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// All returns every cached post, newest first.
func (p *PostStore) All(ctx context.Context) ([]models.Post, error) {
	const query = `SELECT payload FROM posts ORDER BY created_at_epoch DESC`
	rows, err := p.store.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var post models.Post
		if err := json.Unmarshal([]byte(payload), &post); err != nil {
			return nil, fmt.Errorf("decode cached post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Count returns the number of cached posts.
func (p *PostStore) Count(ctx context.Context) (int, error) {
	var count int
	err := p.store.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}
