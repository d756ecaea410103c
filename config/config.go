package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port         string
		AllowOrigins []string `mapstructure:"allow_origins"`
	}
	Log struct {
		Level string
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Cache struct {
		TTLSeconds int `mapstructure:"ttl_seconds"`
	}
	JWT struct {
		Secret string
	}
}

var C Config

const DefaultPath = "config/config.yaml"

// Load 读取 YAML 配置；SPADES_* 环境变量可覆盖，例如 SPADES_SERVER_PORT
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.allow_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("jwt.secret", "")

	v.SetEnvPrefix("spades")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Cache.TTLSeconds < 0 {
		return nil, fmt.Errorf("cache.ttl_seconds must not be negative, got %d", c.Cache.TTLSeconds)
	}
	C = c
	return &c, nil
}
