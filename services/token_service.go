package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quranstudy/config"
	"quranstudy/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Type models.TokenType `json:"type"`
	Role models.Role      `json:"role"`
	jwt.RegisteredClaims
}

type TokenStore interface {
	Create(ctx context.Context, token *models.Token) error
	FindActive(ctx context.Context, value string, tokenType models.TokenType) (*models.Token, error)
	Delete(ctx context.Context, id uint) error
	DeleteForUser(ctx context.Context, userID string) error
}

type TokenPair struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthTokens struct {
	Access  TokenPair `json:"access"`
	Refresh TokenPair `json:"refresh"`
}

type TokenService struct {
	store      TokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(store TokenStore, cfg config.JWTConfig) *TokenService {
	return &TokenService{
		store:      store,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) sign(userID string, role models.Role, tokenType models.TokenType, expires time.Time) (string, error) {
	claims := &Claims{
		Type: tokenType,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates signature, expiry and token type.
func (s *TokenService) Parse(tokenString string, want models.TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != want || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateAuthTokens issues an access and a refresh token and stores the refresh one.
func (s *TokenService) GenerateAuthTokens(ctx context.Context, user *models.User) (*AuthTokens, error) {
	now := s.now()

	accessExpires := now.Add(s.accessTTL)
	access, err := s.sign(user.ID, user.Role, models.TokenTypeAccess, accessExpires)
	if err != nil {
		return nil, err
	}

	refreshExpires := now.Add(s.refreshTTL)
	refresh, err := s.sign(user.ID, user.Role, models.TokenTypeRefresh, refreshExpires)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, &models.Token{
		Token:   refresh,
		UserID:  user.ID,
		Type:    models.TokenTypeRefresh,
		Expires: refreshExpires,
	}); err != nil {
		return nil, err
	}

	return &AuthTokens{
		Access:  TokenPair{Token: access, Expires: accessExpires},
		Refresh: TokenPair{Token: refresh, Expires: refreshExpires},
	}, nil
}

// VerifyRefreshToken checks the JWT and that it is still stored and not blacklisted.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, tokenString string) (*models.Token, error) {
	claims, err := s.Parse(tokenString, models.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.FindActive(ctx, tokenString, models.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if stored.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	return stored, nil
}
