package user

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"pitchboard/db"
	"pitchboard/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserService(t *testing.T) (*UserService, db.UserRepository) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	testDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=10000&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })

	require.NoError(t, db.InitializeSchema(testDB))

	repo := db.NewSQLiteUserRepository(testDB)
	manager := db.NewDBManager()
	t.Cleanup(manager.Stop)

	return NewUserService(repo, manager), repo
}

func TestRegisterAndAuthenticate(t *testing.T) {
	service, _ := setupUserService(t)
	ctx := context.Background()

	account, err := service.Register(ctx, "alice", "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, models.DefaultAvatar, account.AvatarFilename)
	assert.NotEqual(t, "correct horse", account.PasswordHash)

	got, err := service.Authenticate(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = service.Authenticate(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := setupUserService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "alice@example.com", "pw-one-long")
	require.NoError(t, err)

	_, err = service.Register(ctx, "other", "alice@example.com", "pw-two-long")
	assert.ErrorIs(t, err, db.ErrDuplicateEmail)
}

func TestUpdateAccount(t *testing.T) {
	service, repo := setupUserService(t)
	ctx := context.Background()

	account, err := service.Register(ctx, "alice", "alice@example.com", "pw-long-enough")
	require.NoError(t, err)

	// Empty avatar filename keeps the current one
	updated, err := service.UpdateAccount(ctx, account.ID, "alicia", "alicia@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "alicia@example.com", updated.Email)
	assert.Equal(t, models.DefaultAvatar, updated.AvatarFilename)

	updated, err = service.UpdateAccount(ctx, account.ID, "alicia", "alicia@example.com", "abc123.png")
	require.NoError(t, err)
	assert.Equal(t, "abc123.png", updated.AvatarFilename)

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123.png", stored.AvatarFilename)
}

func TestUpdateAccountDuplicateEmail(t *testing.T) {
	service, _ := setupUserService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "alice@example.com", "pw-long-enough")
	require.NoError(t, err)
	bob, err := service.Register(ctx, "bob", "bob@example.com", "pw-long-enough")
	require.NoError(t, err)

	_, err = service.UpdateAccount(ctx, bob.ID, "bob", "alice@example.com", "")
	assert.ErrorIs(t, err, db.ErrDuplicateEmail)
}
