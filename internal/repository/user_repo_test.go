package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

func createTestUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "hashed",
		Name:     "Test",
		Lat:      model.DefaultUserLat,
		Lon:      model.DefaultUserLon,
	}
	require.NoError(t, repo.Create(bg, user))
	return user
}

func TestUserRepo_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo, "joe@example.com")

	got, err := repo.GetByUsername(bg, "joe@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.IsActive)

	missing, err := repo.GetByUsername(bg, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := repo.ExistsByUsername(bg, "joe@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	// 用户名唯一
	err = repo.Create(bg, &model.User{Username: "joe@example.com", Password: "x"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repo.UpdateLastLogin(bg, user.ID))
	got, err = repo.GetByID(bg, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
}

func TestUserRepo_UpdateBlob(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo, "blob@example.com")

	got, err := repo.GetByID(bg, user.ID)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(got.Blob(model.BlobBag)))
	assert.JSONEq(t, "{}", string(got.Blob(model.BlobPreferences)))

	require.NoError(t, repo.UpdateBlob(bg, user.ID, model.BlobBag, datatypes.JSON(`[1,2,3]`)))
	got, err = repo.GetByID(bg, user.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(got.Blob(model.BlobBag)))
	// 其他数据不受影响
	assert.JSONEq(t, "[]", string(got.Blob(model.BlobFavorites)))

	assert.ErrorIs(t, repo.UpdateBlob(bg, 999, model.BlobBag, datatypes.JSON(`[]`)), gorm.ErrRecordNotFound)
	assert.Error(t, repo.UpdateBlob(bg, user.ID, model.BlobKind("cart"), datatypes.JSON(`[]`)))
}

func TestUserRepo_ResetCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, repo, "reset@example.com")

	expires := time.Now().Add(20 * time.Minute)
	require.NoError(t, repo.SetResetCode(bg, user.ID, "abc123", expires))

	got, err := repo.GetByResetCode(bg, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	none, err := repo.GetByResetCode(bg, "")
	require.NoError(t, err)
	assert.Nil(t, none)

	updated, err := repo.ResetPasswordByCode(bg, "abc123", "new-hash")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, user.ID, updated.ID)

	got, err = repo.GetByID(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
	assert.Nil(t, got.PasswordResetCode)
	assert.Nil(t, got.PasswordResetCodeExpires)

	// 同一校验码只能用一次
	again, err := repo.ResetPasswordByCode(bg, "abc123", "other")
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestUserRepo_ClearExpiredResetCodes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	expired := createTestUser(t, repo, "old@example.com")
	fresh := createTestUser(t, repo, "new@example.com")

	now := time.Now()
	require.NoError(t, repo.SetResetCode(bg, expired.ID, "old", now.Add(-time.Minute)))
	require.NoError(t, repo.SetResetCode(bg, fresh.ID, "new", now.Add(time.Minute)))

	n, err := repo.ClearExpiredResetCodes(bg, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByResetCode(bg, "old")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByResetCode(bg, "new")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

// ==================== API Key / 联系人 ====================

func TestAPIKeyRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAPIKeyRepository(db)

	key := &model.APIKey{Name: "ios", Prefix: "abcd1234", KeyHash: "hash-1"}
	require.NoError(t, repo.Create(bg, key))

	got, err := repo.GetActiveByHash(bg, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ios", got.Name)

	n, err := repo.RevokeByPrefix(bg, "abcd1234")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = repo.GetActiveByHash(bg, "hash-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	keys, err := repo.List(bg)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, keys[0].Revoked)
}

func TestContactRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)

	require.NoError(t, repo.Create(bg, &model.Contact{Email: "hi@example.com"}))
	n, err := repo.Count(bg)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
