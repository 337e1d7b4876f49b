package config

import (
	"os"
	"time"

	"meetnotes/internal/notes"
	"meetnotes/pkg/config"
)

// StoreConfig 工作区存储
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	WorkspaceID string `yaml:"workspace_id"`
}

// LimitsConfig 请求边界上的限制
type LimitsConfig struct {
	MaxInputChars int `yaml:"max_input_chars"`
}

// EventsConfig 事件发布
type EventsConfig struct {
	DedupTTL time.Duration `yaml:"dedup_ttl"`
}

type Config struct {
	Server   config.ServerConfig `yaml:"server"`
	Log      config.LogConfig    `yaml:"log"`
	Store    StoreConfig         `yaml:"store"`
	DB       config.DBConfig     `yaml:"db"`
	Redis    config.RedisConfig  `yaml:"redis"`
	MQ       config.MQConfig     `yaml:"mq"`
	Cache    config.CacheConfig  `yaml:"cache"`
	Events   EventsConfig        `yaml:"events"`
	Limits   LimitsConfig        `yaml:"limits"`
	Pipeline notes.Vocabulary    `yaml:"pipeline"`
}

// Load 读取 CONFIG_DIR（默认 config）下的分层配置，再用环境变量覆盖
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(config.GetConfigEnv(), config.GetEnv("CONFIG_DIR", "config"), &cfg); err != nil {
		return nil, err
	}

	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideLogFromEnv(&cfg.Log)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideMQFromEnv(&cfg.MQ)
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if path := os.Getenv("STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/workspace.yaml"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Events.DedupTTL <= 0 {
		c.Events.DedupTTL = 10 * time.Minute
	}
}
