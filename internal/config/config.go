package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures data locations, the training policy, and serving endpoints.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Storage  StorageConfig  `yaml:"storage"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DataConfig struct {
	// Path to the scraped training CSV.
	CSVPath string `yaml:"csvPath"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

// PipelineConfig holds the policy constants of a training run. Threshold and
// VocabSize default to the historical fixed values but are tunable per run.
type PipelineConfig struct {
	PopularityThreshold int     `yaml:"popularityThreshold"`
	VocabSize           int     `yaml:"vocabSize"`
	Trees               int     `yaml:"trees"`
	Seed                int64   `yaml:"seed"`
	TestFraction        float64 `yaml:"testFraction"`
	MaxDepth            int     `yaml:"maxDepth"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Requests per second and burst for the inference API limiter.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Data:    DataConfig{CSVPath: "./data/tiktok_scrapper.csv"},
		Storage: StorageConfig{DBPath: "./clipcast.db"},
		Pipeline: PipelineConfig{
			PopularityThreshold: 10000,
			VocabSize:           100,
			Trees:               100,
			Seed:                42,
			TestFraction:        0.2,
		},
		Server:  ServerConfig{Addr: ":8080", RPS: 10, Burst: 20},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Data.CSVPath == "" {
		c.Data.CSVPath = os.Getenv("CLIPCAST_CSV")
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = os.Getenv("CLIPCAST_DB")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
