// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
	"auction-listings/internal/util"
	"auction-listings/pkg/auth"
)

// TokenIssuer signs access tokens for a user id. *auth.JWTManager implements it.
type TokenIssuer interface {
	Generate(userID int64) (string, time.Time, error)
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// AuthToken is returned on successful login or registration.
type AuthToken struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// AccountService handles sign-up and login.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthToken, error)
	Login(ctx context.Context, username, password string) (*AuthToken, error)
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)
}

type accountService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	tokens     TokenIssuer
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository, tokens TokenIssuer) AccountService {
	return &accountService{dbExecutor: dbExecutor, userRepo: userRepo, tokens: tokens}
}

// Register creates a user and logs them in.
func (s *accountService) Register(ctx context.Context, input RegisterInput) (*AuthToken, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", util.ErrInvalidInput)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", util.ErrInvalidInput)
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", util.ErrInvalidInput, auth.MaxPasswordBytes)
	}
	if input.Password != input.Confirmation {
		return nil, fmt.Errorf("%w: passwords must match", util.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(username, email, hash)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if errors.Is(err, util.ErrDuplicateEntry) {
			return nil, fmt.Errorf("register: username already taken: %w", err)
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.issue(user)
}

// Login checks credentials. Unknown users and wrong passwords fail the same way.
func (s *accountService) Login(ctx context.Context, username, password string) (*AuthToken, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username and/or password", util.ErrUnauthorized)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid username and/or password", util.ErrUnauthorized)
	}
	return s.issue(user)
}

// CurrentUser loads the account behind an authenticated request. A token whose user
// no longer exists is treated as unauthenticated.
func (s *accountService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", util.ErrUnauthorized)
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

func (s *accountService) issue(user *domain.User) (*AuthToken, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthToken{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
