package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())

	old := Version
	defer func() { Version = old }()

	Version = ""
	assert.Equal(t, "unknown", GetVersion())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TZ", "UTC")

	cfg, err := Load([]string{})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "./content", cfg.ContentDir)
	assert.Equal(t, "tr", cfg.DefaultLocale)
	assert.Equal(t, 9, cfg.PageSize)
	assert.Equal(t, ViewStoreSQLite, cfg.ViewStore)
	assert.Equal(t, "./content-comb.db", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.BaseUrl)
	assert.Equal(t, time.UTC.String(), cfg.Location.String())
	assert.False(t, cfg.Debug)
	assert.Equal(t, GetVersion(), cfg.Version)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONTENT_DIR", "/srv/content")
	t.Setenv("VIEW_STORE", "redis")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("BASE_URL", "https://www.example-law.com")
	t.Setenv("TZ", "Europe/Istanbul")
	t.Setenv("DEBUG", "true")

	cfg, err := Load([]string{})
	require.NoError(t, err)

	assert.Equal(t, "/srv/content", cfg.ContentDir)
	assert.Equal(t, ViewStoreRedis, cfg.ViewStore)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, "https://www.example-law.com", cfg.BaseUrl)
	assert.Equal(t, "Europe/Istanbul", cfg.Location.String())
	assert.True(t, cfg.Debug)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := Load([]string{"--port", "9100", "--view-store", "memory", "--default-locale", "en"})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, ViewStoreMemory, cfg.ViewStore)
	assert.Equal(t, "en", cfg.DefaultLocale)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load([]string{"--view-store", "postgres"})
	assert.Error(t, err)

	_, err = Load([]string{"--page-size", "0"})
	assert.Error(t, err)

	_, err = Load([]string{"--default-locale", "de"})
	assert.Error(t, err)
}

func TestLoadInvalidTimezoneFallsBack(t *testing.T) {
	cfg, err := Load([]string{"--timezone", "Mars/Olympus_Mons"})
	require.NoError(t, err)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoadHelp(t *testing.T) {
	cfg, err := Load([]string{"--help"})
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}
