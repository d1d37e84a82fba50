package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/backend/internal/models"
)

// MemoryStore is an in-memory store with the same contract as PostgresStore,
// used by tests and local experiments.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
	posts map[string]*models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
		posts: make(map[string]*models.Post),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	if p.Author != nil {
		a := *p.Author
		c.Author = &a
	}
	return &c
}

func (s *MemoryStore) CreateUser(_ context.Context, name, email, hashedPassword string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrDuplicateEmail
		}
	}

	now := time.Now()
	u := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	return copyUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, id string, patch models.ProfilePatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Bio != nil {
		u.Bio = patch.Bio
	}
	if patch.Avatar != nil {
		u.Avatar = patch.Avatar
	}
	if patch.DateOfBirth != nil {
		u.DateOfBirth = patch.DateOfBirth
	}
	u.UpdatedAt = time.Now()
	return copyUser(u), nil
}

func (s *MemoryStore) authorOf(p *models.Post) *models.PostAuthor {
	if u, ok := s.users[p.AuthorID]; ok {
		return &models.PostAuthor{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return nil
}

func (s *MemoryStore) CreatePost(_ context.Context, authorID, title, content string, img *string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p := &models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Img:       img,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[p.ID] = p
	return copyPost(p), nil
}

func (s *MemoryStore) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := copyPost(p)
	c.Author = s.authorOf(p)
	return c, nil
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		c := copyPost(p)
		c.Author = s.authorOf(p)
		posts = append(posts, *c)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *MemoryStore) ListPostsByAuthor(_ context.Context, authorID string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []models.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			posts = append(posts, *copyPost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Img != nil {
		p.Img = patch.Img
	}
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}

func (s *MemoryStore) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}
