package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MigrationsDirOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	assert.Equal(t, "/custom/migrations", loadConfig().MigrationsDir)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")
	_ = os.Unsetenv("MIGRATIONS_DIR")

	cfg := loadConfig()
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
	assert.NotEmpty(t, cfg.DSN)
}

func TestLoadConfig_EnvFileDoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, "from_env", loadConfig().DSN)
}

func TestRunCommand(t *testing.T) {
	var got []string
	exec := func(_ context.Context, cmd string) error {
		got = append(got, cmd)
		return nil
	}

	for _, cmd := range []string{"up", "down", "status"} {
		require.NoError(t, runCommand(context.Background(), cmd, exec))
	}
	assert.Equal(t, []string{"up", "down", "status"}, got)

	assert.Error(t, runCommand(context.Background(), "sideways", exec))
}
