package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pulseboard/backend/internal/models"
)

const userColumns = `id, name, email, password, bio, avatar, date_of_birth, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password,
		&u.Bio, &u.Avatar, &u.DateOfBirth,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		uuid.New().String(), name, email, hashedPassword,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)
	return scanUser(row)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUserProfile merges the provided profile fields into the user row.
// Nil patch fields map to NULL arguments, which COALESCE leaves untouched.
func (s *PostgresStore) UpdateUserProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE users
		 SET bio           = COALESCE($2, bio),
		     avatar        = COALESCE($3, avatar),
		     date_of_birth = COALESCE($4, date_of_birth),
		     updated_at    = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, patch.Bio, patch.Avatar, patch.DateOfBirth,
	)
	return scanUser(row)
}
