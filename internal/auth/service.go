package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/models"
	"github.com/pulseboard/backend/internal/store"
)

const bcryptCost = 12

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyHash is a well-formed cost-12 hash matching no password. Comparing
// against it keeps Authenticate timing for unknown emails in line with a
// wrong-password attempt.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// NormalizeEmail lowercases and trims an email address. Uniqueness is
// enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserStore defines the persistence the credential service needs.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Service validates and persists user identities and issues session tokens.
type Service struct {
	users  UserStore
	tokens *TokenManager
	log    zerolog.Logger
}

func NewService(users UserStore, tokens *TokenManager, log zerolog.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

// Register creates a new user. Tokens are minted only on login.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	var fields []string
	if utf8.RuneCountInString(name) < 2 {
		fields = append(fields, "Name must be at least 2 characters long")
	}
	if !emailRx.MatchString(email) {
		fields = append(fields, "Valid email is required")
	}
	if utf8.RuneCountInString(password) < 6 {
		fields = append(fields, "Password must be at least 6 characters long")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	user, err := s.users.CreateUser(ctx, name, email, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, apperr.Internal("Failed to create user", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Authenticate checks credentials and mints a session token. The failure is
// identical for unknown email and wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)

	var fields []string
	if !emailRx.MatchString(email) {
		fields = append(fields, "Valid email is required")
	}
	if password == "" {
		fields = append(fields, "Password is required")
	}
	if len(fields) > 0 {
		return nil, "", apperr.Validation(fields...)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, "", apperr.InvalidCredentials()
		}
		return nil, "", apperr.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.InvalidCredentials()
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, "", apperr.Internal("Failed to mint token", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

// GetByID returns a user or NotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to fetch user", err)
	}
	return user, nil
}

// GetByEmail returns a user by normalized email or NotFound.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to fetch user", err)
	}
	return user, nil
}

// ListAll returns every user, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}
	return users, nil
}
