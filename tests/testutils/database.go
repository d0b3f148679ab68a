package testutils

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"pitchboard/db"
	"pitchboard/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	testDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=10000&_foreign_keys=on")
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
		os.RemoveAll(tempDir)
	}

	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, func()) {
	testDB, cleanup := SetupTestDatabase(t)
	factory := db.NewRepositoryFactory(testDB, "pitchboard_test")
	return factory, cleanup
}

func GetTestConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:          "0",
		SessionSecret: "test_session_secret_for_testing_only",
		JwtKey:        []byte("test_jwt_secret_key_for_testing_only"),
		SQLitePath:    ":memory:",
		DatabaseName:  "pitchboard_test",
		UploadDir:     t.TempDir(),
		TemplateDir:   TemplateDir(t),
		QuotesURL:     "http://127.0.0.1:1/random.json", // unreachable; pages must degrade
	}
}

// TemplateDir locates the repository templates directory from wherever the
// test package runs.
func TemplateDir(t *testing.T) string {
	for _, dir := range []string{"templates", "../../templates", "../templates"} {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	t.Fatal("templates directory not found")
	return ""
}
