package repository

import (
	"context"
	"errors"
	"testing"

	"findtogether/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{
		Username: "finder",
		Email:    "finder@example.com",
		Password: "hashed-password",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "finder", byID.Username)

	byEmail, err := repo.GetByEmail(ctx, "finder@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserGetByEmailMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserGetByIDNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing-user")
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{
		Username: "first",
		Email:    "dup@example.com",
		Password: "x",
	}))

	err := repo.Create(ctx, &models.User{
		Username: "second",
		Email:    "dup@example.com",
		Password: "y",
	})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "User already exists", appErr.Message)
}

func TestUserUpdateNickname(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{
		Username: "finder",
		Email:    "finder@example.com",
		Password: "x",
	}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.UpdateNickname(ctx, user.ID, "캡틴")
	require.NoError(t, err)
	assert.Equal(t, "캡틴", updated.Nickname)
	assert.Equal(t, "캡틴", updated.DisplayName())
}

func TestUserUpdateNicknameNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.UpdateNickname(context.Background(), "missing-user", "ghost")
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
