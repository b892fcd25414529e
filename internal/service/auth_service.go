package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"libstack/internal/auth"
	"libstack/internal/errors"
	"libstack/internal/model"
	"libstack/internal/repository"
)

// AuthService handles librarian signup and login.
type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (token string, err error)
	Login(ctx context.Context, username, password string) (token string, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup registers a new librarian account and returns a token so the
// caller is logged in immediately. Username and email must be unused.
func (s *authService) Signup(ctx context.Context, username, email, password string) (string, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return "", errors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("check username: %w", err)
	}

	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", errors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateAccessToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}

// Login verifies credentials and returns a signed token. Unknown username
// and wrong password produce the same error so accounts cannot be
// enumerated; a deactivated account is a distinct failure.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return "", errors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", errors.ErrAccountDeactivated
	}

	token, err := s.jwtService.GenerateAccessToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}
