package profile

import (
	"context"
	"errors"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/models"
	"github.com/pulseboard/backend/internal/store"
)

const maxBioLength = 500

// UpdateRequest is the JSON body for PUT /profile and POST /profile/complete.
// Date of birth is accepted as YYYY-MM-DD or RFC 3339.
type UpdateRequest struct {
	Bio         *string `json:"bio"`
	Avatar      *string `json:"avatar"`
	DateOfBirth *string `json:"date_of_birth"`
}

// UserStore defines the persistence the profile service needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error)
}

// Service maintains the mutable profile attributes embedded on a user.
type Service struct {
	users UserStore
	log   zerolog.Logger
}

func NewService(users UserStore, log zerolog.Logger) *Service {
	return &Service{users: users, log: log}
}

func parseDateOfBirth(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func validAvatarURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validate checks each provided field independently and aggregates every
// failure into one ValidationError.
func (s *Service) validate(req UpdateRequest) (models.ProfilePatch, *apperr.Error) {
	var patch models.ProfilePatch
	var fields []string

	if req.Bio != nil {
		if utf8.RuneCountInString(*req.Bio) > maxBioLength {
			fields = append(fields, "Bio must be less than 500 characters")
		} else {
			patch.Bio = req.Bio
		}
	}

	if req.Avatar != nil {
		if !validAvatarURL(*req.Avatar) {
			fields = append(fields, "Please provide a valid avatar URL")
		} else {
			patch.Avatar = req.Avatar
		}
	}

	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*req.DateOfBirth)
		switch {
		case err != nil:
			fields = append(fields, "Date of birth seems invalid")
		case dob.After(time.Now()):
			fields = append(fields, "Date of birth cannot be in the future")
		case dob.Year() < 1900:
			fields = append(fields, "Date of birth seems invalid")
		default:
			patch.DateOfBirth = &dob
		}
	}

	if len(fields) > 0 {
		return models.ProfilePatch{}, apperr.Validation(fields...)
	}
	return patch, nil
}

// Upsert merges the provided fields into the user's profile. Omitted fields
// are left untouched. An unknown user id fails with NotFound; Register is
// the only path that creates users.
func (s *Service) Upsert(ctx context.Context, userID string, req UpdateRequest) (*models.User, error) {
	patch, verr := s.validate(req)
	if verr != nil {
		return nil, verr
	}

	user, err := s.users.UpdateUserProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, apperr.Internal("Failed to update profile", err)
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}

// GetOwn returns the caller's full profile, date of birth included.
func (s *Service) GetOwn(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, apperr.Internal("Failed to fetch profile", err)
	}
	return user, nil
}

// GetPublic returns the public projection: never email or date of birth.
func (s *Service) GetPublic(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Public profile not found")
		}
		return nil, apperr.Internal("Failed to fetch profile", err)
	}
	return user.Public(), nil
}
