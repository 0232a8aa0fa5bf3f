package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
)

// UserService holds the operator actions behind `do user ...`.
type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
	emailService   *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	authService *AuthService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// Create registers an account without sending the welcome email.
func (s *UserService) Create(ctx context.Context, in SignupInput, admin bool) (*model.User, error) {
	role := model.RoleUser
	if admin {
		role = model.RoleAdmin
	}
	return s.authService.register(ctx, in, role)
}

func (s *UserService) Promote(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return user, nil
	}

	user.Role = model.RoleAdmin
	user.UpdatedAt = now()
	if err := s.userRepository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	slog.Info("user promoted", "user_id", user.ID)
	return user, nil
}

// Deactivate blocks login and bearer access but keeps the user's data.
func (s *UserService) Deactivate(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return user, nil
	}

	user.IsActive = false
	user.UpdatedAt = now()
	if err := s.userRepository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}

	if err := s.emailService.SendAccountDeactivatedEmail(ctx, user.Email, user.Name); err != nil {
		slog.Warn("failed to send account deactivated email", "error", err, "user_id", user.ID)
	}

	slog.Info("user deactivated", "user_id", user.ID)
	return user, nil
}
