package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/auth"
	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/repository"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 10

// UserService implements registration, login, and token validation.
type UserService struct {
	repo     repository.UserRepository
	jwt      *auth.JWTManager
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, jwt *auth.JWTManager, producer *event.Producer, logger *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		jwt:      jwt,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registration.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// Register creates a new customer account and issues a token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username: input.Username,
		Password: string(hashedPassword),
		Email:    input.Email,
		Role:     domain.RoleCustomer,
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = id

	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords produce the same error so the response never reveals which one
// was wrong.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid username or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid username or password")
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Validate verifies a token and returns its claims.
func (s *UserService) Validate(token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if !domain.IsValidRole(claims.Role) {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}
