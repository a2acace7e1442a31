package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/warehouse-cli/internal/analysis"
	"github.com/sells-group/warehouse-cli/internal/export"
	"github.com/sells-group/warehouse-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// OutputConfig controls where and how report tables are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"`
}

// AnalysisConfig tunes the ABC classification.
type AnalysisConfig struct {
	ThresholdA       float64 `yaml:"threshold_a" mapstructure:"threshold_a"`
	ThresholdB       float64 `yaml:"threshold_b" mapstructure:"threshold_b"`
	ZeroProfitPolicy string  `yaml:"zero_profit_policy" mapstructure:"zero_profit_policy"`
}

// Options converts the section into pipeline options.
func (a AnalysisConfig) Options() analysis.Options {
	return analysis.Options{
		Thresholds:       analysis.Thresholds{A: a.ThresholdA, B: a.ThresholdB},
		ZeroProfitPolicy: model.ZeroProfitPolicy(a.ZeroProfitPolicy),
	}
}

// BatchConfig configures multi-input runs.
type BatchConfig struct {
	MaxConcurrentInputs int `yaml:"max_concurrent_inputs" mapstructure:"max_concurrent_inputs"`
}

// StoreConfig configures the database exporters.
type StoreConfig struct {
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
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
	v.SetEnvPrefix("WAREHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.formats", []string{export.FormatXLSX})
	v.SetDefault("analysis.threshold_a", 70.0)
	v.SetDefault("analysis.threshold_b", 90.0)
	v.SetDefault("analysis.zero_profit_policy", string(model.ZeroProfitAsZero))
	v.SetDefault("batch.max_concurrent_inputs", 2)
	v.SetDefault("store.sqlite_path", "warehouse.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.schema", "warehouse")

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

// Validate checks the settings a command depends on. Every problem is
// reported, not just the first.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze":
		t := analysis.Thresholds{A: c.Analysis.ThresholdA, B: c.Analysis.ThresholdB}
		if err := t.Validate(); err != nil {
			errs = append(errs, "analysis thresholds: "+err.Error())
		}
		if !model.ZeroProfitPolicy(c.Analysis.ZeroProfitPolicy).Valid() {
			errs = append(errs, "analysis.zero_profit_policy must be one of zero, error")
		}
		if len(c.Output.Formats) == 0 {
			errs = append(errs, "output.formats must not be empty")
		}
		for _, f := range c.Output.Formats {
			if !export.IsFormat(f) {
				errs = append(errs, "output.formats: unknown format "+f)
			}
			if f == export.FormatPostgres && c.Store.DatabaseURL == "" {
				errs = append(errs, "store.database_url is required for postgres output")
			}
			if f == export.FormatSQLite && c.Store.SQLitePath == "" {
				errs = append(errs, "store.sqlite_path is required for sqlite output")
			}
		}
		if c.Batch.MaxConcurrentInputs < 1 || c.Batch.MaxConcurrentInputs > 64 {
			errs = append(errs, "batch.max_concurrent_inputs must be between 1 and 64")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
