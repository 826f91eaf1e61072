package service

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/openvault/filevault/internal/db"
	"github.com/openvault/filevault/internal/repository"
)

// newTestRepos wires repositories over an in-memory sqlite database.
func newTestRepos(t *testing.T) (repository.UserRepository, repository.FileRepository) {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	t.Cleanup(func() { database.Close() })
	return repository.NewUserRepository(database), repository.NewFileRepository(database)
}
