package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.NotEmpty(t, cfg.Session.FilePath)
	assert.Equal(t, "@api_notas", cfg.Session.KeyPrefix)
	assert.Equal(t, 48*time.Hour, cfg.DevAPI.TokenTTL)
	assert.Empty(t, cfg.Export.S3.Bucket)
}

func TestOverridesFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://notas.example.com/")
	t.Setenv("API_TIMEOUT", "not-a-duration")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "https://notas.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}
