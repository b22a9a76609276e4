package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/database"
	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/snapshot"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pgmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PGMETA_DSN", "postgres://localhost/db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/db", cfg.Database.DSN)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, []string{"public"}, cfg.Introspect.Schemas)
	assert.Equal(t, "drop", cfg.Introspect.Orphans)
	assert.True(t, cfg.IntrospectOptions().InferRelations)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  max_conns: 8
  query_timeout: 5s
introspect:
  schemas: [app, billing]
  orphans: error
  skip_relations: true
export:
  endpoint: localhost:9000
  bucket: meta
  format: yaml
`)
	t.Setenv("PGMETA_DB_MAX_CONNS", "2")
	t.Setenv("PGMETA_S3_SECRET_KEY", "shh")

	cfg, err := Load(path)
	require.NoError(t, err)

	db := cfg.DatabaseConfig()
	assert.Equal(t, database.DriverMySQL, db.Driver)
	assert.Equal(t, int32(2), db.MaxConns)
	assert.Equal(t, 5*time.Second, db.QueryTimeout)

	opts := cfg.IntrospectOptions()
	assert.Equal(t, catalog.OrphanError, opts.Orphans)
	assert.False(t, opts.InferRelations)
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, []string{"app", "billing"}, cfg.Introspect.Schemas)

	require.True(t, cfg.PublishEnabled())
	store := cfg.StoreConfig()
	assert.Equal(t, "shh", store.SecretKey)
	assert.Equal(t, "meta", store.Bucket)
	assert.NoError(t, store.Validate())

	pub := cfg.PublishOptions()
	assert.Equal(t, snapshot.FormatYAML, pub.Format)
	assert.Equal(t, "snapshots", pub.Prefix)
}

func TestLoad_SecretsIgnoredInYAML(t *testing.T) {
	os.Unsetenv("PGMETA_DSN")
	path := writeConfig(t, `
database:
  dsn: postgres://leaked@localhost/db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"driver", "database:\n  driver: oracle\n"},
		{"orphans", "introspect:\n  orphans: keep\n"},
		{"format", "export:\n  format: toml\n"},
		{"pool", "database:\n  max_conns: 2\n  min_conns: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}
