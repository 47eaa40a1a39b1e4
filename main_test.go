package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points the configuration at a fresh sqlite file holding one user.
func sqliteEnv(t *testing.T) (dsn string, user *models.User) {
	t.Helper()
	dsn = "file:" + filepath.Join(t.TempDir(), "toko.db") + "?_foreign_keys=1"
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)
	t.Setenv("DB_AUTO_MIGRATE", "true")

	conn, err := db.Open(db.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))
	user = &models.User{Email: "boss@example.com", Password: "x"}
	require.NoError(t, repositories.NewGORMUserRepository(conn).Create(context.Background(), user))
	require.NoError(t, db.Close(conn))
	return dsn, user
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["admin"])
}

func TestAdminGrant(t *testing.T) {
	dsn, user := sqliteEnv(t)

	out, err := run(t, "admin", "grant", "Boss@Example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "boss@example.com ("+user.ID+") is now an admin")

	conn, err := db.Open(db.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	defer db.Close(conn)
	ok, err := repositories.NewGORMUserRepository(conn).IsAdmin(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// granting twice is fine
	_, err = run(t, "admin", "grant", "boss@example.com")
	require.NoError(t, err)
}

func TestAdminGrantUnknownUser(t *testing.T) {
	sqliteEnv(t)
	_, err := run(t, "admin", "grant", "ghost@example.com")
	assert.ErrorContains(t, err, "no user registered")
}

func TestMigrateRefusesSqlite(t *testing.T) {
	sqliteEnv(t)
	_, err := run(t, "migrate", "up")
	assert.ErrorContains(t, err, "migrations target postgres")

	_, err = run(t, "migrate", "sideways")
	assert.Error(t, err)
}

func TestCommandsRequireSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "admin", "grant", "a@example.com")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
