package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the qissa configuration file
// (~/.config/qissa/config.yaml). Fields are pointers where we need to
// distinguish "not set" from zero values.
type Config struct {
	BPEModelPath     string `yaml:"bpe_model_path"`
	TrigramModelPath string `yaml:"trigram_model_path"`

	// Training defaults
	VocabSize *int64 `yaml:"vocab_size"`

	// Sampling defaults
	Temperature *float64 `yaml:"temperature"`
	TopK        *int64   `yaml:"top_k"`
	MaxLength   *int64   `yaml:"max_length"`
	Seed        *int64   `yaml:"seed"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qissa", "config.yaml")
}

// applyModelConfig applies model-path defaults when the corresponding
// CLI flag was not explicitly set.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.BPEModelPath != "" && !c.IsSet("bpe-model") {
		bpeModelPath = cfg.BPEModelPath
	}
	if cfg.TrigramModelPath != "" && !c.IsSet("trigram-model") {
		trigramModelPath = cfg.TrigramModelPath
	}
}

// applyGenerateConfig applies sampling defaults to generate command
// variables when the corresponding CLI flag was not explicitly set.
func applyGenerateConfig(c *cli.Command, cfg Config,
	maxLength *int64, temp *float64, topK *int64, seed *int64,
) {
	applyModelConfig(c, cfg)
	if cfg.MaxLength != nil && !c.IsSet("max-length") {
		*maxLength = *cfg.MaxLength
	}
	if cfg.Temperature != nil && !c.IsSet("temp") && !c.IsSet("temperature") && !c.IsSet("t") {
		*temp = *cfg.Temperature
	}
	if cfg.TopK != nil && !c.IsSet("top-k") {
		*topK = *cfg.TopK
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyModelConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or fails to parse.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
