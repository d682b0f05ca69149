package app

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdocs/internal/config"
	"gdocs/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:    config.JWTConfig{Secret: "s", Issuer: "gdocs"},
		Upload: config.UploadConfig{FormMaxBytes: 2 << 30, BulkMaxBytes: 10 << 20},
		Email:  config.EmailConfig{Provider: "noop"},
	}
}

func TestBuild_WiresEveryService(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	a, err := build(testConfig(), logger.Nop(), sqlx.NewDb(raw, "pgx"))

	require.NoError(t, err)
	assert.NotNil(t, a.Services.Audit)
	assert.NotNil(t, a.Services.Notifications)
	assert.NotNil(t, a.Services.Auth)
	assert.NotNil(t, a.Services.Users)
	assert.NotNil(t, a.Services.Documents)
	assert.NotNil(t, a.Services.Categories)
	assert.NotNil(t, a.Services.Stats)
	assert.Equal(t, int64(10<<20), a.Limits.Bulk)
}

func TestBuild_UnknownEmailProvider(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	cfg := testConfig()
	cfg.Email.Provider = "carrier-pigeon"

	_, err = build(cfg, logger.Nop(), sqlx.NewDb(raw, "pgx"))

	assert.Error(t, err)
}
