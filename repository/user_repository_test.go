package repository

import (
	"fmt"
	"testing"

	"quranstudy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryEmailTaken(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := &models.User{Name: "Fatima", Email: "fatima@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, user))

	taken, err := repo.EmailTaken(ctx, "FATIMA@example.com", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "fatima@example.com", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	got, err := repo.FindByEmail(ctx, "Fatima@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepositoryQueryPaginates(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	for i := 0; i < 5; i++ {
		role := models.RoleUser
		if i == 0 {
			role = models.RoleAdmin
		}
		require.NoError(t, repo.Create(ctx, &models.User{
			Name:     fmt.Sprintf("user-%d", i),
			Email:    fmt.Sprintf("user-%d@example.com", i),
			Password: "hash",
			Role:     role,
		}))
	}

	page, err := repo.Query(ctx, UserFilter{Role: models.RoleUser}, PageOptions{SortBy: "name:desc", Limit: 3, Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.TotalResults)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 3)
	assert.Equal(t, "user-4", page.Results[0].Name)

	page, err = repo.Query(ctx, UserFilter{Role: models.RoleUser}, PageOptions{SortBy: "name:desc", Limit: 3, Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "user-1", page.Results[0].Name)
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := &models.User{Name: "Omar", Email: "omar@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), ErrNotFound)
}

func TestUserOrderIgnoresUnknownColumns(t *testing.T) {
	assert.Equal(t, "created_at ASC", userOrder(""))
	assert.Equal(t, "created_at ASC", userOrder("password:desc"))
	assert.Equal(t, "role DESC, name ASC", userOrder("role:desc,name"))
}
