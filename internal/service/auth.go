package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string, userType domain.UserType) (*domain.User, error) {
	logger.EnterMethod("authService.Register", "email", email)

	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}
	switch userType {
	case "":
		userType = domain.UserTypeLessee
	case domain.UserTypeLessee, domain.UserTypeLessor, domain.UserTypeBoth:
	default:
		return nil, domain.NewValidationError("invalid user type: " + string(userType))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		UserType:     userType,
		Status:       domain.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", email)
		return nil, err
	}

	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if user.Status == domain.UserStatusSuspended {
		return nil, "", "", domain.ErrUnauthorized
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Roles())
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, "", "", err
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, access, refresh, nil
}

// RefreshToken issues a new access token for a user already authenticated by a refresh token
func (s *authService) RefreshToken(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	if user.Status == domain.UserStatusSuspended {
		return "", domain.ErrUnauthorized
	}
	return s.tokens.GenerateAccessToken(user.ID, user.Email, user.Roles())
}
