package post

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/models"
	"github.com/pulseboard/backend/internal/store"
)

const (
	minTitleLength   = 3
	minContentLength = 10
)

// Store defines the persistence the content service needs.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreatePost(ctx context.Context, authorID, title, content string, img *string) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// Service manages posts owned by a user identity.
type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(s Store, log zerolog.Logger) *Service {
	return &Service{store: s, log: log}
}

// Create persists a new post. The author's profile must be complete (bio,
// avatar and date of birth all set); the check and the insert are separate
// reads, so a concurrent profile change may be observed as stale, which is
// benign.
func (s *Service) Create(ctx context.Context, authorID, title, content string, img *string) (*models.Post, error) {
	author, err := s.store.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to fetch author", err)
	}
	if !author.ProfileComplete() {
		return nil, apperr.PreconditionFailed("Please complete your profile (bio, avatar, and date of birth) before creating a post")
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	var fields []string
	if utf8.RuneCountInString(title) < minTitleLength {
		fields = append(fields, "Title must be at least 3 characters long")
	}
	if utf8.RuneCountInString(content) < minContentLength {
		fields = append(fields, "Content must be at least 10 characters long")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	created, err := s.store.CreatePost(ctx, authorID, title, content, img)
	if err != nil {
		return nil, apperr.Internal("Failed to create post", err)
	}
	created.Author = &models.PostAuthor{ID: author.ID, Name: author.Name, Avatar: author.Avatar}

	s.log.Info().Str("post_id", created.ID).Str("author_id", authorID).Msg("post created")
	return created, nil
}

// ListAll returns every post, newest first, with the author embedded.
func (s *Service) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch posts", err)
	}
	return posts, nil
}

// GetByID returns one post or NotFound.
func (s *Service) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	p, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal("Failed to fetch post", err)
	}
	return p, nil
}

// ownedPost fetches a post and enforces that authorID owns it.
func (s *Service) ownedPost(ctx context.Context, authorID, postID string) (*models.Post, error) {
	existing, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal("Failed to fetch post", err)
	}
	if existing.AuthorID != authorID {
		return nil, apperr.Forbidden("You can only modify your own posts")
	}
	return existing, nil
}

// Update merges the supplied fields into an owned post. Provided strings are
// re-trimmed and re-validated; omitted fields stay untouched.
func (s *Service) Update(ctx context.Context, authorID, postID string, patch models.PostPatch) (*models.Post, error) {
	if _, err := s.ownedPost(ctx, authorID, postID); err != nil {
		return nil, err
	}

	var fields []string
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if utf8.RuneCountInString(trimmed) < minTitleLength {
			fields = append(fields, "Title must be at least 3 characters long")
		}
		patch.Title = &trimmed
	}
	if patch.Content != nil {
		trimmed := strings.TrimSpace(*patch.Content)
		if utf8.RuneCountInString(trimmed) < minContentLength {
			fields = append(fields, "Content must be at least 10 characters long")
		}
		patch.Content = &trimmed
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	if _, err := s.store.UpdatePost(ctx, postID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Internal("Failed to update post", err)
	}

	// Re-read to embed the author projection.
	updated, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch post", err)
	}

	s.log.Info().Str("post_id", postID).Msg("post updated")
	return updated, nil
}

// Delete hard-deletes an owned post.
func (s *Service) Delete(ctx context.Context, authorID, postID string) error {
	if _, err := s.ownedPost(ctx, authorID, postID); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Post not found")
		}
		return apperr.Internal("Failed to delete post", err)
	}

	s.log.Info().Str("post_id", postID).Msg("post deleted")
	return nil
}

// ListByAuthor returns the author's posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	posts, err := s.store.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch posts", err)
	}
	return posts, nil
}
