package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Contains(t, cfg.DBConnStr, "dbname=todo_db")
	assert.Contains(t, cfg.DBURL, "postgres://")
	assert.Contains(t, cfg.DBURL, "sslmode=disable")
	assert.Equal(t, 0, cfg.BcryptCost)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_EXPIRATION_HOURS", "24")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://frontend.example.com")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("DB_NAME", "todo_test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, float64(24), cfg.JWTExp.Hours())
	assert.Equal(t, []string{"http://localhost:3000", "https://frontend.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Contains(t, cfg.DBURL, "/todo_test?")
}
