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

type UserService struct {
	users  UserStore
	tokens TokenStore
	logger *zap.Logger
}

func NewUserService(users UserStore, tokens TokenStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, logger: logger}
}

type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,password"`
	Role     models.Role `json:"role" binding:"required,oneof=user admin"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,password"`
}

type ListUsersQuery struct {
	Name   string `form:"name"`
	Role   string `form:"role" binding:"omitempty,oneof=user admin"`
	SortBy string `form:"sortBy"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	return createUser(ctx, s.users, req.Name, req.Email, req.Password, req.Role)
}

func (s *UserService) List(ctx context.Context, q ListUsersQuery) (*repository.Page[models.User], error) {
	page, err := s.users.Query(ctx,
		repository.UserFilter{Name: q.Name, Role: models.Role(q.Role)},
		repository.PageOptions{SortBy: q.SortBy, Limit: q.Limit, Page: q.Page},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if page.Results == nil {
		page.Results = []models.User{}
	}
	return page, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, s.users, id)
}

func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	user, err := getUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := s.users.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if taken {
			return nil, apperror.BadRequest("Email already taken")
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	if err := s.tokens.DeleteForUser(ctx, id); err != nil {
		s.logger.Warn("failed to drop tokens of deleted user", zap.String("user_id", id), zap.Error(err))
	}
	return nil
}

// SeedAdmin creates the admin account unless a user with that email exists.
func (s *UserService) SeedAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	user, err := createUser(ctx, s.users, name, email, password, models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	user.IsEmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
