package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		MaxQuestions    int    `yaml:"maxQuestions"`
		LeaderboardSize int    `yaml:"leaderboardSize"`
		BankTTL         string `yaml:"bankTtl"`
	} `yaml:"quiz"`
	Auth struct {
		BcryptCost int    `yaml:"bcryptCost"`
		SessionTTL string `yaml:"sessionTtl"`
	} `yaml:"auth"`
	Weather struct {
		APIKey string `yaml:"apiKey"`
	} `yaml:"weather"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = os.Getenv("OWM_API_KEY")
	}
	return cfg, nil
}

// MaxQuestions returns the attempt length, defaulting to 20.
func (c Config) MaxQuestions() int {
	if c.Quiz.MaxQuestions > 0 {
		return c.Quiz.MaxQuestions
	}
	return 20
}

// LeaderboardSize returns the ranked-query size, defaulting to 20.
func (c Config) LeaderboardSize() int {
	if c.Quiz.LeaderboardSize > 0 {
		return c.Quiz.LeaderboardSize
	}
	return 20
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
