package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Session   SessionConfigs  `toml:"session"`
	Redis     RedisConfigs    `toml:"redis"`
	Security  SecurityConfigs `toml:"security"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`

	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type SessionConfigs struct {
	Secret string `toml:"secret"`
	Name   string `toml:"name"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type SecurityConfigs struct {
	CSRF      CSRFConfigs      `toml:"csrf"`
	RateLimit RateLimitConfigs `toml:"rate_limit"`
}

type CSRFConfigs struct {
	// CookieName is the HTTP-only, server-authoritative cookie. MirrorName is
	// the readable duplicate the client echoes back in HeaderName.
	CookieName string        `toml:"cookie_name"`
	MirrorName string        `toml:"mirror_name"`
	HeaderName string        `toml:"header_name"`
	Expiration time.Duration `toml:"expiration"`
}

type RateLimitRule struct {
	Limit  int           `toml:"limit"`
	Window time.Duration `toml:"window"`
}

type RateLimitConfigs struct {
	// Driver selects the counter backend, either "redis" or "memory". The
	// memory driver is only correct for a single instance deploy.
	Driver string `toml:"driver"`

	API      RateLimitRule `toml:"api"`
	Login    RateLimitRule `toml:"login"`
	Register RateLimitRule `toml:"register"`

	// MaxTrackedTokens bounds the number of distinct client tokens the
	// in-memory limiter keeps counters for.
	MaxTrackedTokens int `toml:"max_tracked_tokens"`
}
