package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/geo"
)

// minRequestDelayMs is the shortest delay after which a Places continuation
// token becomes valid.
const minRequestDelayMs = 2000

// Config holds the full application configuration.
type Config struct {
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestDelayMs int    `yaml:"request_delay_ms" mapstructure:"request_delay_ms"`
	MaxAttempts    int    `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// SearchConfig describes what to search for.
type SearchConfig struct {
	Location string   `yaml:"location" mapstructure:"location"`
	Radius   int      `yaml:"radius" mapstructure:"radius"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// EnrichConfig configures the website analysis phase.
type EnrichConfig struct {
	Workers          int    `yaml:"workers" mapstructure:"workers"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputConfig configures the persisted result store.
type OutputConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MetricsConfig configures the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("google.request_delay_ms", 2000)
	v.SetDefault("google.max_attempts", 3)
	v.SetDefault("search.location", "39.9526,-75.1652")
	v.SetDefault("search.radius", 50000)
	v.SetDefault("search.keywords", []string{"landscaping", "house cleaning"})
	v.SetDefault("enrich.workers", 12)
	v.SetDefault("enrich.fetch_timeout_secs", 10)
	v.SetDefault("enrich.user_agent", "Mozilla/5.0 (compatible; leadgen/1.0)")
	v.SetDefault("output.path", "leads_output.csv")
	v.SetDefault("output.xlsx_path", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.addr", "")

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

	// A comma-separated env value arrives as a single element.
	cfg.Search.Keywords = splitKeywords(cfg.Search.Keywords)

	return &cfg, nil
}

// Validate checks the settings a pipeline run cannot start without. It runs
// before any network activity.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Google.Key) == "" {
		errs = append(errs, "google.key is required (set LEADGEN_GOOGLE_KEY)")
	}
	if _, err := geo.ParseLocation(c.Search.Location); err != nil {
		errs = append(errs, "search.location: "+err.Error())
	}
	if c.Search.Radius <= 0 {
		errs = append(errs, "search.radius must be > 0")
	}
	if len(c.Search.Keywords) == 0 {
		errs = append(errs, "search.keywords must not be empty")
	}
	if c.Enrich.Workers <= 0 {
		errs = append(errs, "enrich.workers must be > 0")
	}
	if c.Google.RequestDelayMs < minRequestDelayMs {
		errs = append(errs, "google.request_delay_ms must be >= 2000")
	}
	if c.Output.Path == "" {
		errs = append(errs, "output.path is required")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Google.Key != "" {
		c.Google.Key = "****"
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL != "" {
		c.Store.DatabaseURL = "****"
	}
	return c
}

func splitKeywords(in []string) []string {
	var out []string
	for _, item := range in {
		for _, kw := range strings.Split(item, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				out = append(out, kw)
			}
		}
	}
	return out
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
