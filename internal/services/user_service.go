package services

import (
	"context"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/validation"

	"github.com/rs/zerolog"
)

// UserService handles account maintenance outside of signup and login.
type UserService struct {
	repo      repositories.UserRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

// GetAllUsers lists users without their password hashes.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users: %w", models.ErrNotFound)
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// UpdateProfile replaces name, email and mobile number of a user.
// An unknown id is models.ErrNotFound without attempting the write.
func (s *UserService) UpdateProfile(ctx context.Context, id string, values validation.Values) (*models.User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := models.ProfileFields{
		Name:         values["name"],
		Email:        values["email"],
		MobileNumber: values["mobileNumber"],
	}
	user, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	s.logger.Info().
		Str("user_id", id).
		Bool("email_changed", current.Email != fields.Email).
		Msg("profile updated")
	publishEvent(s.publisher, s.logger, EventUserUpdated, id, public)
	return &public, nil
}

// DeleteUser removes a user and returns the deleted record.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	publishEvent(s.publisher, s.logger, EventUserDeleted, id, public)
	return &public, nil
}
