package repository

import (
	"context"
	"strings"

	"quranstudy/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

type UserFilter struct {
	Name string
	Role models.Role
}

// PageOptions mirrors the list query string: sortBy is "field:asc|desc" pairs separated by commas.
type PageOptions struct {
	SortBy string
	Limit  int
	Page   int
}

type Page[T any] struct {
	Results      []T   `json:"results"`
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

var userSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// EmailTaken reports whether another user (not excludeID) already owns email.
func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", strings.ToLower(email))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Query(ctx context.Context, filter UserFilter, opts PageOptions) (*Page[models.User], error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	q := r.DB.WithContext(ctx).Model(&models.User{})
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := q.Order(userOrder(opts.SortBy)).
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &Page[models.User]{
		Results:      users,
		Page:         opts.Page,
		Limit:        opts.Limit,
		TotalPages:   int((total + int64(opts.Limit) - 1) / int64(opts.Limit)),
		TotalResults: total,
	}, nil
}

func userOrder(sortBy string) string {
	var clauses []string
	for _, part := range strings.Split(sortBy, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		column, ok := userSortColumns[field]
		if !ok {
			continue
		}
		if strings.EqualFold(dir, "desc") {
			clauses = append(clauses, column+" DESC")
		} else {
			clauses = append(clauses, column+" ASC")
		}
	}
	if len(clauses) == 0 {
		return "created_at ASC"
	}
	return strings.Join(clauses, ", ")
}
