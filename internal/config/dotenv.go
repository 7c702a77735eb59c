package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv .env 파일 로드. 우선순위는 .env.<APP_ENV> > .env.local > .env 이며
// godotenv.Load는 이미 설정된 변수를 덮지 않으므로 OS 환경변수가 항상 이긴다.
// 실제로 로드한 파일 목록을 반환한다 (기동 로그용).
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	if env := os.Getenv("APP_ENV"); env != "" {
		candidates = append([]string{fmt.Sprintf(".env.%s", env)}, candidates...)
	}

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			continue
		}
		loaded = append(loaded, f)
	}
	return loaded
}
