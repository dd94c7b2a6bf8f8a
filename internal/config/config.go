package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text | json
	Output     string `yaml:"output"` // stdout | stderr | file
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

type NotesConfig struct {
	Backend string `yaml:"backend"` // bolt | postgres
	DBPath  string `yaml:"db_path"`
	DSN     string `yaml:"dsn"`
}

type WebUIConfig struct {
	Listen string `yaml:"listen"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	ResultsDir string `yaml:"results_dir"`

	Log     LogConfig     `yaml:"log"`
	Notes   NotesConfig   `yaml:"notes"`
	WebUI   WebUIConfig   `yaml:"webui"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoadConfig reads the yaml file at path. A missing file is not an error,
// defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCANRESULTS_DIR"); v != "" {
		c.ResultsDir = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Notes.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
	if c.Log.MaxSize <= 0 {
		c.Log.MaxSize = 100
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAge <= 0 {
		c.Log.MaxAge = 28
	}
	if c.Notes.Backend == "" {
		c.Notes.Backend = "bolt"
	}
	if c.Notes.DBPath == "" {
		c.Notes.DBPath = "data/notes.db"
	}
	if c.WebUI.Listen == "" {
		c.WebUI.Listen = "127.0.0.1:8088"
	}
}
