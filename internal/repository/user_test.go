package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvault/filevault/internal/model"
)

func TestUserCreateAndLookup(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := &model.User{Email: "bob@dylan.com", PasswordHash: "digest-1"}
	require.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.ByEmail("bob@dylan.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "digest-1", byEmail.PasswordHash)

	byID, err := repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", byID.Email)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	first := &model.User{Email: "bob@dylan.com", PasswordHash: "digest-1"}
	require.NoError(t, repo.Create(first))

	second := &model.User{Email: "bob@dylan.com", PasswordHash: "digest-2"}
	err := repo.Create(second)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// The first record is untouched
	got, err := repo.ByEmail("bob@dylan.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "digest-1", got.PasswordHash)
}

func TestUserLookup_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.ByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.ByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserCount(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	require.NoError(t, repo.Create(&model.User{Email: "a@b.c", PasswordHash: "x"}))
	require.NoError(t, repo.Create(&model.User{Email: "d@e.f", PasswordHash: "y"}))

	n, err = repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
