package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv
const (
	EnvInput    = "CENTRALITY_INPUT"
	EnvLogLevel = "LOG_LEVEL"
	EnvPostgres = "CENTRALITY_POSTGRES_URL"
)

// Symmetry policies for input graphs
const (
	SymmetryIgnore = "ignore"
	SymmetryRepair = "repair"
	SymmetryReject = "reject"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config is the full configuration of a centrality run
type Config struct {
	// Input is a local path, file:// URL or s3://bucket/key location
	Input  string `yaml:"input" validate:"required"`
	Strict bool   `yaml:"strict"`
	// Symmetry selects how an asymmetric adjacency mapping is handled
	Symmetry string   `yaml:"symmetry" validate:"oneof=ignore repair reject"`
	Metrics  []string `yaml:"metrics" validate:"min=1,unique,dive,oneof=degree closeness betweenness"`

	TopK   int    `yaml:"top_k" validate:"min=0"`
	Format string `yaml:"format" validate:"oneof=text json yaml"`
	// Output is the report destination; empty means stdout
	Output string `yaml:"output"`

	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	MetricsAddr string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Workers     int           `yaml:"workers" validate:"min=0,max=64"`
	Timeout     time.Duration `yaml:"timeout" validate:"min=0"`

	S3   S3Config   `yaml:"s3"`
	Sink SinkConfig `yaml:"sink"`
}

// S3Config configures S3 input locations
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
	PathStyle       bool   `yaml:"path_style"`
}

// SinkConfig configures result persistence
type SinkConfig struct {
	PostgresURL string `yaml:"postgres_url" validate:"omitempty,url"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Symmetry: SymmetryIgnore,
		Metrics:  []string{"degree", "closeness", "betweenness"},
		TopK:     5,
		Format:   "text",
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvInput); v != "" {
		c.Input = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPostgres); v != "" {
		c.Sink.PostgresURL = v
	}
}

// Validate checks the configuration against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, formatValidationError(err))
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "required_with":
			return fmt.Errorf("%s: required when %s is set", field, param)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: %q is not one of [%s]", field, e.Value(), param)
		case "unique":
			return fmt.Errorf("%s: must not contain duplicates", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
