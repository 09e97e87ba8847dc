package config

// Config represents the full application configuration.
type Config struct {
	Codec         CodecConfig         `yaml:"codec"`
	Store         StoreConfig         `yaml:"store"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// CodecConfig configures the identifier codec.
type CodecConfig struct {
	// Pepper is the server-held secret used to derive internal seeds.
	// Seed identifiers are public by design; the pepper is the only
	// secret in the scheme and must never be logged or persisted.
	Pepper string `yaml:"pepper"`

	// MaxAttempts bounds the unique-sequence rejection sampling.
	// Zero means the built-in default; there is no reason to change it
	// for task counts within the 16-bit space.
	MaxAttempts int `yaml:"maxAttempts"`
}

// StoreConfig configures the persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig configures batch artifact output.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Format    string `yaml:"format"` // json, markdown, none
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Level        string `yaml:"level"`        // debug, info, warning, error
	Format       string `yaml:"format"`       // json, human
	RedactPepper bool   `yaml:"redactPepper"` // Redact the pepper in logs
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.Codec = chooseCodec(base.Codec, overlay.Codec)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseCodec(base, overlay CodecConfig) CodecConfig {
	result := base
	if overlay.Pepper != "" {
		result.Pepper = overlay.Pepper
	}
	if overlay.MaxAttempts != 0 {
		result.MaxAttempts = overlay.MaxAttempts
	}
	return result
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	result := base
	if overlay.Directory != "" {
		result.Directory = overlay.Directory
	}
	if overlay.Format != "" {
		result.Format = overlay.Format
	}
	return result
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base
	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	return result
}
