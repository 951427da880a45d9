// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Service struct {
	Addr           string
	DBPath         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ResultCacheTTL time.Duration
	OpenTDBURL     string
	HTTPTimeout    time.Duration
}

type Taker struct {
	ServerURL   string
	Username    string
	HTTPTimeout time.Duration
}

// LoadDotEnv loads the given files (".env" when none) into the process
// environment. Variables that are already set win. Missing files are not an
// error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func LoadService() Service {
	return Service{
		Addr:           envOrDefault("ADDR", ":8080"),
		DBPath:         envOrDefault("DB_PATH", "quiz.db"),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        intOrDefault("REDIS_DB", 0),
		ResultCacheTTL: durationOrDefault("RESULT_CACHE_TTL", 10*time.Minute),
		OpenTDBURL:     envOrDefault("OPENTDB_URL", "https://opentdb.com/api.php"),
		HTTPTimeout:    durationOrDefault("HTTP_TIMEOUT", 10*time.Second),
	}
}

func LoadTaker() Taker {
	return Taker{
		ServerURL:   envOrDefault("QUIZ_SERVER", "http://127.0.0.1:8080"),
		Username:    strings.TrimSpace(os.Getenv("QUIZ_USERNAME")),
		HTTPTimeout: durationOrDefault("HTTP_TIMEOUT", 10*time.Second),
	}
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intOrDefault(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
