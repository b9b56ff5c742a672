package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      string `yaml:"port"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Quiz struct {
		QuestionsDir  string `yaml:"questions_dir"`
		TimeLimit     string `yaml:"time_limit"`
		MaxQuestions  int    `yaml:"max_questions"`
		CacheTTL      string `yaml:"cache_ttl"`
		SessionTTL    string `yaml:"session_ttl"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"quiz"`
	Highscores struct {
		Driver     string `yaml:"driver"`
		File       string `yaml:"file"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"highscores"`
	GameLog struct {
		Dir string `yaml:"dir"`
	} `yaml:"game_log"`
	Admin struct {
		Password     string `yaml:"password"`
		PasswordHash string `yaml:"password_hash"`
		TokenSecret  string `yaml:"token_secret"`
		TokenTTL     string `yaml:"token_ttl"`
	} `yaml:"admin"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Load reads YAML config from path. A missing file yields the defaults.
// Environment variables override the file for secrets.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		c.Admin.PasswordHash = v
	}
	if v := os.Getenv("ADMIN_TOKEN_SECRET"); v != "" {
		c.Admin.TokenSecret = v
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Port, "3000")
	setDefault(&c.Server.StaticDir, "public")
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "json")
	setDefault(&c.Quiz.QuestionsDir, "questions")
	setDefault(&c.Highscores.Driver, "file")
	setDefault(&c.Highscores.File, "highscores.json")
	setDefault(&c.Highscores.SQLitePath, "highscores.db")
	setDefault(&c.GameLog.Dir, "log")
	if c.Quiz.MaxQuestions <= 0 {
		c.Quiz.MaxQuestions = 12
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
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
