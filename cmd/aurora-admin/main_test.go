package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "admin.db")
	t.Setenv("AURORA_CONFIG", "")
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("DB_CONN", dbPath)
	t.Setenv("JWT_SECRET", "admin-secret")
	t.Setenv("FX_URL", "")
	return dbPath
}

func runAdmin(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateSeedReconcile(t *testing.T) {
	setupEnv(t)

	out, err := runAdmin(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Schema applied (sqlite3)\n", out)

	out, err = runAdmin(t, "seed", "--email", "demo@aurora.app")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Seeded demo@aurora.app: 10 categories, 7 accounts")
	assert.Contains(t, out, "4 goals, 5 budgets, 4 subscriptions")

	out, err = runAdmin(t, "reconcile")
	require.NoError(t, err, out)
	assert.Equal(t, "All account balances match their ledgers.\n", out)

	_, err = runAdmin(t, "seed", "--email", "demo@aurora.app")
	require.Error(t, err)
	assert.Equal(t, exitCommandError, exitCode(err))
}

func TestReconcile_ReportsDrift(t *testing.T) {
	dbPath := setupEnv(t)
	_, err := runAdmin(t, "seed")
	require.NoError(t, err)

	repo, err := repository.Open(config.DriverSQLite, dbPath)
	require.NoError(t, err)
	_, err = repo.DB().ExecContext(context.Background(),
		`UPDATE accounts SET balance = balance + 100000 WHERE name = $1`, "Cuenta Corriente")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	out, err := runAdmin(t, "reconcile", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))

	var res struct {
		Count  int        `json:"count"`
		Drifts []driftRow `json:"drifts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Cuenta Corriente", res.Drifts[0].Name)
	assert.Equal(t, "1000", res.Drifts[0].Difference)
}

func TestRootOptions(t *testing.T) {
	setupEnv(t)

	_, err := runAdmin(t, "migrate", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")

	_, err = runAdmin(t, "ask", "hola")
	assert.ErrorContains(t, err, "email")

	t.Setenv("DB_DRIVER", "mysql")
	_, err = runAdmin(t, "migrate")
	require.Error(t, err)
	assert.Equal(t, exitCommandError, exitCode(err))
}
