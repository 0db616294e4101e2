package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/adityaverma/banking-service/internal/auth"
	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/repository"
)

type UserService interface {
	CreateUser(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := validateSignupRequest(req); err != nil {
		s.logger.Warn("invalid signup request",
			"email", req.Email,
			"error", err.Error(),
		)
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err.Error())
		return nil, err
	}

	user := &models.User{
		Email:          strings.ToLower(req.Email),
		HashedPassword: hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.IsAlreadyExists(err) {
			s.logger.Warn("email already registered",
				"email", user.Email,
			)
			return nil, err
		}
		s.logger.Error("failed to create user",
			"email", user.Email,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
	)
	return user, nil
}

// AuthenticateUser verifies credentials and returns the user. A missing
// user and a wrong password both map to ErrInvalidCredentials so the
// response does not leak which emails are registered.
func (s *UserServiceImpl) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.HashedPassword, password) {
		s.logger.Warn("failed login attempt",
			"user_id", user.ID,
		)
		return nil, errors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func validateSignupRequest(req *models.SignupRequest) error {
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		return errors.NewValidationError("email", "invalid email format")
	}
	if req.FirstName == "" {
		return errors.NewValidationError("first_name", "must be non-empty")
	}
	if req.LastName == "" {
		return errors.NewValidationError("last_name", "must be non-empty")
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.NewValidationError("password", "must be at least 8 characters")
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*", c):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return errors.NewValidationError("password", "must contain at least one uppercase letter")
	}
	if !hasDigit {
		return errors.NewValidationError("password", "must contain at least one digit")
	}
	if !hasSpecial {
		return errors.NewValidationError("password", "must contain at least one special character")
	}
	return nil
}
