package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outofschool/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 12, cfg.Pagination.DefaultSize)
	assert.Equal(t, 100, cfg.Pagination.MaxSize)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.False(t, cfg.Search.Fallback)
	assert.True(t, cfg.Search.IndexEnabled)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Pagination, cfg.Pagination)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout.Std())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigNotFound))
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9090
read_timeout = "3s"

[pagination]
default_size = 20
max_size = 50

[search]
index_enabled = false
fallback = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("OUTOFSCHOOL_SEARCH_FALLBACK", "true")
	t.Setenv("OUTOFSCHOOL_PAGINATION_MAX_SIZE", "40")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, 20, cfg.Pagination.DefaultSize)
	assert.Equal(t, 40, cfg.Pagination.MaxSize)
	assert.False(t, cfg.Search.IndexEnabled)
	assert.True(t, cfg.Search.Fallback)
	// untouched keys keep their defaults
	assert.Equal(t, 10.0, cfg.Search.DefaultRadiusKm)
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigParse))
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Search.PreferIndex = true
	cfg.Search.BreakerTimeout = Duration(45 * time.Second)
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Search.PreferIndex)
	assert.Equal(t, 45*time.Second, loaded.Search.BreakerTimeout.Std())
	assert.Equal(t, cfg.Database.DSN, loaded.Database.DSN)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 70000
	cfg.Database.Driver = "oracle"
	cfg.Pagination.DefaultSize = 200
	cfg.Search.BreakerFailures = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigInvalid))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	for _, fragment := range []string{"server.port", "database.driver", "pagination.default_size", "search.breaker_failures", "logging.format"} {
		assert.Contains(t, appErr.Details, fragment)
	}
}
