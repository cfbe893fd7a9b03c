package repository

import (
	"context"
	"testing"

	"eshop/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserRepository_HashIsOnlyReadByEmail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(db, zerolog.Nop())
	ctx := context.Background()

	user := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash-1", Phone: "123"}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Empty(t, byID.PasswordHash)
	assert.Equal(t, "Ada", byID.Name)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "hash-1", byEmail.PasswordHash)

	unknown, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "A", Email: "dup@example.com", PasswordHash: "h"}))

	err := repo.Create(ctx, &model.User{Name: "B", Email: "dup@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	other := &model.User{Name: "C", Email: "c@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, other))
	other.Email = "dup@example.com"
	_, err = repo.Update(ctx, other)
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestUserRepository_UpdateKeepsHashWhenEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(db, zerolog.Nop())
	ctx := context.Background()

	user := &model.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "original"}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.Update(ctx, &model.User{ID: user.ID, Name: "Robert", Email: "bob@example.com"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Robert", updated.Name)
	assert.Empty(t, updated.PasswordHash)

	stored, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "original", stored.PasswordHash)

	_, err = repo.Update(ctx, &model.User{ID: user.ID, Name: "Robert", Email: "bob@example.com", PasswordHash: "rotated"})
	require.NoError(t, err)
	stored, err = repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "rotated", stored.PasswordHash)
}

func TestUserRepository_CountAndDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(db, zerolog.Nop())
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	u := &model.User{Name: "Eve", Email: "eve@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Empty(t, deleted.PasswordHash)

	missing, err := repo.Delete(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
