package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "git.home.luguber.info/inful/metricsync/internal/errors"
)

// Config represents the whole catalogue configuration file.
type Config struct {
	Targets   []TargetEntry   `yaml:"targets"`
	Discovery DiscoveryConfig `yaml:"discovery,omitempty"`
	Policy    PolicyConfig    `yaml:"policy,omitempty"`
}

// Load loads configuration from the specified file. Environment variables in
// the YAML content are expanded, and .env/.env.local are consulted first so
// tokens can live outside the catalogue.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load(".env", ".env.local")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, apperrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, apperrors.StoreReadError(configPath, err)
	}
	return Parse(data)
}

// LoadRaw reads the catalogue exactly as authored: no environment expansion
// and no defaulting. Use it when the document will be written back, so
// transient overrides and derived defaults never leak into the file.
func LoadRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ConfigNotFound(configPath)
		}
		return nil, apperrors.StoreReadError(configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "failed to unmarshal catalogue")
	}
	return &cfg, nil
}

// Parse decodes a catalogue document from raw YAML bytes.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "failed to unmarshal catalogue")
	}

	if len(cfg.Targets) == 0 {
		return nil, apperrors.ConfigRequired("targets")
	}
	cfg.Discovery.ApplyDefaults()
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	repo := "metricsync"
	example := Config{
		Targets: []TargetEntry{
			{
				Owner: "octocat",
				Kind:  KindProfile,
			},
			{
				Owner:      "octocat",
				Repository: &repo,
				Kind:       KindOpenSource,
			},
		},
		Discovery: DiscoveryConfig{
			MaxPages: DefaultMaxPages,
			Retry: RetryConfig{
				MaxAttempts:   3,
				InitialDelay:  "1s",
				BackoffFactor: 2.0,
			},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return apperrors.StoreWriteError(configPath, err)
	}
	return nil
}
