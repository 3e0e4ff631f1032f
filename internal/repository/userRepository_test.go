package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medigo/orders-service/internal/domain"
)

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u := &domain.User{
		ID:       uuid.New(),
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "hashed",
	}
	require.NoError(t, repo.CreateUser(ctx, u))

	got, err := repo.GetUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Asha", got.Name)

	// Email lookup is case-insensitive.
	_, err = repo.GetUserByEmail(ctx, "ASHA@example.com")
	assert.NoError(t, err)
}

func TestMemoryUserRepositoryDuplicate(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u := &domain.User{ID: uuid.New(), Email: "dup@example.com"}
	require.NoError(t, repo.CreateUser(ctx, u))

	err := repo.CreateUser(ctx, &domain.User{ID: uuid.New(), Email: "dup@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestMemoryUserRepositoryNotFound(t *testing.T) {
	repo := NewMemoryUserRepository()

	_, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
