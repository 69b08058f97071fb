package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load builds the configuration from environment variables. If CONFIG_FILE
// points to a TOML file, values from that file override the environment.
func Load() (Configs, error) {
	cfg := Configs{
		Env: getEnv("ENV", "dev"),
		Database: DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "bskmt"),
			User:     getEnv("MYSQL_USER", "bskmt"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		ApiServer: ServerConfigs{
			Host:           getEnv("API_HOST", ""),
			Port:           getEnv("API_PORT", "8080"),
			Cert:           getEnv("API_CERT", ""),
			Key:            getEnv("API_KEY", ""),
			MaxLimit:       getEnvInt("API_MAX_LIMIT", 50),
			DefaultLimit:   getEnvInt("API_DEFAULT_LIMIT", 10),
			AllowedOrigins: strings.Split(getEnv("API_ALLOWED_ORIGINS", "*"), ","),
		},
		Auth: AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: TokenConfigs{
				Name:       getEnv("ACCESS_TOKEN_NAME", "bsk_access_token"),
				Expiration: getEnvDuration("ACCESS_TOKEN_DURATION", time.Hour*24),
			},
		},
		Session: SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session-secret"),
			Name:   getEnv("SESSION_NAME", "bsk_session"),
		},
		Redis: RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Security: SecurityConfigs{
			CSRF: CSRFConfigs{
				CookieName: getEnv("CSRF_COOKIE_NAME", "bsk_csrf_token"),
				MirrorName: getEnv("CSRF_MIRROR_NAME", "bsk_csrf_token_client"),
				HeaderName: getEnv("CSRF_HEADER_NAME", "x-csrf-token"),
				Expiration: getEnvDuration("CSRF_DURATION", 2*time.Hour),
			},
			RateLimit: RateLimitConfigs{
				API:              RateLimitRule{Limit: getEnvInt("RATE_LIMIT_API", 100), Window: getEnvDuration("RATE_LIMIT_API_WINDOW", time.Minute)},
				Login:            RateLimitRule{Limit: getEnvInt("RATE_LIMIT_LOGIN", 5), Window: getEnvDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute)},
				Register:         RateLimitRule{Limit: getEnvInt("RATE_LIMIT_REGISTER", 3), Window: getEnvDuration("RATE_LIMIT_REGISTER_WINDOW", time.Hour)},
				MaxTrackedTokens: getEnvInt("RATE_LIMIT_MAX_TOKENS", 100000),
			},
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
