package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"시간 단위", "expires_in: 24h", 24 * time.Hour},
		{"복합 단위", "expires_in: 1h30m", 90 * time.Minute},
		{"일주일", "expires_in: 168h", 168 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg JWTConfig
			err := yaml.Unmarshal([]byte(tt.input), &cfg)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ExpiresIn.Std())
		})
	}
}

func TestDurationUnmarshalYAMLInvalid(t *testing.T) {
	var cfg JWTConfig
	err := yaml.Unmarshal([]byte("expires_in: tomorrow"), &cfg)
	assert.Error(t, err)
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
app:
  env: local
database:
  host: localhost
  user: jangteo
  name: jangteo
jwt:
  secret: file-secret
`
	assert.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	assert.NoError(t, err)

	// 환경변수가 파일 값을 덮는다
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.True(t, cfg.IsDevelopment())

	// 기본값 채움
	assert.Equal(t, 8082, cfg.App.Port)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn.Std())

	// charset 미지정시 DSN이 utf8mb4로 채운다
	assert.Contains(t, cfg.Database.DSN(), "charset=utf8mb4")
}

func TestLoadDotEnvPriority(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JANGTEO_DOTENV_CHECK=base\n"), 0o600))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("JANGTEO_DOTENV_CHECK=env-specific\n"), 0o600))

	t.Setenv("APP_ENV", "test")
	t.Setenv("JANGTEO_DOTENV_CHECK", "placeholder")
	os.Unsetenv("JANGTEO_DOTENV_CHECK")
	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	loaded := LoadDotEnv()

	// .env.<APP_ENV>가 먼저 로드되어 이긴다 (godotenv는 설정된 값을 덮지 않음)
	assert.Equal(t, []string{".env.test", ".env"}, loaded)
	assert.Equal(t, "env-specific", os.Getenv("JANGTEO_DOTENV_CHECK"))
}

func TestDSNContainsCoreParts(t *testing.T) {
	db := DatabaseConfig{
		Host: "db.internal", Port: 3306,
		User: "jangteo", Password: "pw", Name: "jangteo", Charset: "utf8mb4",
	}
	dsn := db.DSN()
	assert.Contains(t, dsn, "jangteo:pw@tcp(db.internal:3306)/jangteo")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
