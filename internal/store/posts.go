package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pulseboard/backend/internal/models"
)

const postColumns = `p.id, p.title, p.content, p.img, p.author_id, p.created_at, p.updated_at`

func scanPost(row interface{ Scan(...any) error }, withAuthor bool) (*models.Post, error) {
	var p models.Post
	dest := []any{
		&p.ID, &p.Title, &p.Content, &p.Img, &p.AuthorID,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if withAuthor {
		p.Author = &models.PostAuthor{}
		dest = append(dest, &p.Author.ID, &p.Author.Name, &p.Author.Avatar)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, authorID, title, content string, img *string) (*models.Post, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO posts (id, title, content, img, author_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, content, img, author_id, created_at, updated_at`,
		uuid.New().String(), title, content, img, authorID,
	)
	p, err := scanPost(row, false)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postColumns+`, u.id, u.name, u.avatar
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`, id,
	)
	return scanPost(row, true)
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postColumns+`, u.id, u.name, u.avatar
		 FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows, true)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 WHERE p.author_id = $1
		 ORDER BY p.created_at DESC`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows, false)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// UpdatePost merges the provided fields; ownership is checked by the caller.
func (s *PostgresStore) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE posts
		 SET title      = COALESCE($2, title),
		     content    = COALESCE($3, content),
		     img        = COALESCE($4, img),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, title, content, img, author_id, created_at, updated_at`,
		id, patch.Title, patch.Content, patch.Img,
	)
	return scanPost(row, false)
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
