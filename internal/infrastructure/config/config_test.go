package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "defect-portal", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "defect_db", cfg.Database.Name)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, 256, cfg.Embedding.BatchSize)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEFECT_HTTP_PORT", "9090")
	t.Setenv("DEFECT_DATABASE_NAME", "defects_test")
	t.Setenv("DEFECT_EMBEDDING_MODEL", "nomic-embed-text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "defects_test", cfg.Database.Name)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEFECT_APP_ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DEFECT_DATABASE_PASSWORD", "s3cret")
	t.Setenv("DEFECT_JWT_SECRET", "also-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsBadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEFECT_APP_ENVIRONMENT", "weird")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.local", Port: 3306, User: "portal", Password: "pw", Name: "defect_db",
	}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "portal:pw@tcp(db.local:3306)/defect_db")
	assert.Contains(t, dsn, "parseTime=true")
}
