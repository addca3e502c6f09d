package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Mapping  MappingConfig  `yaml:"mapping" mapstructure:"mapping"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the mapping-run audit backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RegistryConfig points at the master-data snapshot and rule tables.
type RegistryConfig struct {
	Snapshot  string `yaml:"snapshot" mapstructure:"snapshot"`
	Rules     string `yaml:"rules" mapstructure:"rules"`
	CachePath string `yaml:"cache_path" mapstructure:"cache_path"`
}

// MappingConfig tunes the matching and reporting cutoffs.
type MappingConfig struct {
	MasterDataThreshold    float64 `yaml:"master_data_threshold" mapstructure:"master_data_threshold"`
	NameThreshold          float64 `yaml:"name_threshold" mapstructure:"name_threshold"`
	LowConfidenceThreshold float64 `yaml:"low_confidence_threshold" mapstructure:"low_confidence_threshold"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrent int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// ServerConfig configures the mapping HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POLICY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "policy.db")
	v.SetDefault("registry.snapshot", "refdata.json")
	v.SetDefault("registry.cache_path", "refdata.db")
	v.SetDefault("mapping.master_data_threshold", 0.5)
	v.SetDefault("mapping.name_threshold", 0.6)
	v.SetDefault("mapping.low_confidence_threshold", 0.7)
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("batch.rate_per_second", 20)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a given mode depends on. Modes: "map",
// "batch", "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(cond bool, msg string) {
		if cond {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "map":
		check(c.Registry.Snapshot == "" && c.Registry.CachePath == "",
			"registry.snapshot or registry.cache_path is required")
	case "batch":
		check(c.Registry.Snapshot == "" && c.Registry.CachePath == "",
			"registry.snapshot or registry.cache_path is required")
		check(c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 50,
			"batch.max_concurrent must be between 1 and 50")
		check(c.Batch.RatePerSecond <= 0, "batch.rate_per_second must be > 0")
	case "serve":
		check(c.Server.Port <= 0, "server.port must be > 0")
		check(c.Registry.Snapshot == "" && c.Registry.CachePath == "",
			"registry.snapshot or registry.cache_path is required")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	for _, th := range []struct {
		name  string
		value float64
	}{
		{"mapping.master_data_threshold", c.Mapping.MasterDataThreshold},
		{"mapping.name_threshold", c.Mapping.NameThreshold},
		{"mapping.low_confidence_threshold", c.Mapping.LowConfidenceThreshold},
	} {
		if th.value < 0 || th.value > 1 {
			problems = append(problems, th.name+" must be between 0 and 1")
		}
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
