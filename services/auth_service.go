package services

import (
	"context"
	"errors"
	"strings"

	"quranstudy/apperror"
	"quranstudy/models"
	"quranstudy/repository"

	"go.uber.org/zap"
)

// UserStore is the user persistence shared by the auth and user services.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, filter repository.UserFilter, opts repository.PageOptions) (*repository.Page[models.User], error)
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	store  TokenStore
	logger *zap.Logger
}

func NewAuthService(users UserStore, tokens *TokenService, store TokenStore, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, store: store, logger: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens *AuthTokens  `json:"tokens"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	user, err := createUser(ctx, s.users, req.Name, req.Email, req.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if user == nil || !CheckPassword(user.Password, req.Password) {
		return nil, apperror.Unauthorized("Incorrect email or password")
	}

	tokens, err := s.tokens.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Logout forgets a stored refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.store.FindActive(ctx, refreshToken, models.TokenTypeRefresh)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Not found")
	}
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.store.Delete(ctx, stored.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// RefreshTokens rotates a refresh token into a new token pair.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	stored, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Please authenticate")
		}
		return nil, apperror.Internal(err)
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("Please authenticate")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// the delete is what consumes the token; a concurrent refresh that lost the race gets 401
	if err := s.store.Delete(ctx, stored.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Please authenticate")
		}
		return nil, apperror.Internal(err)
	}
	tokens, err := s.tokens.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return tokens, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return getUser(ctx, s.users, userID)
}

func createUser(ctx context.Context, users UserStore, name, email, password string, role models.Role) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := users.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if taken {
		return nil, apperror.BadRequest("Email already taken")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func getUser(ctx context.Context, users UserStore, id string) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}
