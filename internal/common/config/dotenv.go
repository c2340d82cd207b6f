package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenvIfPresent: .env 파일을 읽어 환경 변수로 등록한다.
// 이미 설정된 환경 변수는 덮어쓰지 않고, 없는 파일은 건너뛴다.
// paths 가 비어 있으면 DOTENV_PATH(쉼표 구분) 또는 ".env" 를 쓴다.
func LoadDotenvIfPresent(paths ...string) error {
	for _, path := range dotenvPaths(paths) {
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return fmt.Errorf("stat dotenv file failed path=%s: %w", path, err)
		case info.IsDir():
			return fmt.Errorf("dotenv path is a directory: %s", path)
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load dotenv file failed path=%s: %w", path, err)
		}
	}
	return nil
}

func dotenvPaths(paths []string) []string {
	if len(paths) > 0 {
		return paths
	}
	raw := strings.TrimSpace(os.Getenv("DOTENV_PATH"))
	if raw == "" {
		return []string{".env"}
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
