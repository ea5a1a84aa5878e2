package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/sp3dr4/bizsearch/internal/domain"
	"github.com/sp3dr4/bizsearch/internal/pkg/auth"
	"github.com/sp3dr4/bizsearch/internal/pkg/logging"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AuthService struct {
	users    domain.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
	validate *validator.Validate
	hashCost int
}

func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		logger:   logger,
		validate: validator.New(),
		hashCost: auth.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost for new passwords. Values outside
// bcrypt's accepted range keep the current cost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.hashCost = cost
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPasswordWithCost(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := domain.NewUser(req.Username, hash)
	if err != nil {
		return nil, err
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	logging.FromContextOr(ctx, s.logger).Info("User registered", "user_id", created.ID, "username", created.Username)

	return s.issue(created)
}

// Login returns ErrInvalidCredentials for both unknown users and wrong
// passwords.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		logging.FromContextOr(ctx, s.logger).Warn("Failed login attempt", "username", req.Username)
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	if userID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindUserByID(ctx, userID)
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(token string) (int64, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0, errors.Join(domain.ErrUnauthenticated, err)
	}
	return userID, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}
