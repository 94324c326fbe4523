package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WMASewwandi/clovesis-sub003/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("CRM_API_BASE_URL", "https://crm.example.com/api/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://crm.example.com/api", cfg.CRM.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.CRM.Timeout())
	assert.Equal(t, config.DraftStoreMemory, cfg.Drafts.Store)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("CRM_API_BASE_URL", "http://localhost:5000")
	t.Setenv("CRM_API_TIMEOUT_SECONDS", "15")
	t.Setenv("DRAFT_STORE", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SHARE_SUBJECT", "Cotización")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.CRM.Timeout())
	assert.Equal(t, config.DraftStorePostgres, cfg.Drafts.Store)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "Cotización", cfg.Share.Subject)
}

func TestLoad_Errores(t *testing.T) {
	t.Run("sin url del CRM", func(t *testing.T) {
		t.Setenv("CRM_API_BASE_URL", "")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("almacén desconocido", func(t *testing.T) {
		t.Setenv("CRM_API_BASE_URL", "http://localhost:5000")
		t.Setenv("DRAFT_STORE", "redis")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "plans", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/plans?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://u@h/x"
	assert.Equal(t, "postgres://u@h/x", db.ConnectionString())
}
