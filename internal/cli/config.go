package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/packdex/packdex/pkg/builder"
	"github.com/packdex/packdex/pkg/cache"
	"github.com/packdex/packdex/pkg/catalog"
)

// Config is the TOML configuration for the packdex service. Every field
// has a working default; a config file only needs to override what
// differs in a deployment.
type Config struct {
	Search SearchConfig          `toml:"search"`
	Repo   RepoConfig            `toml:"repo"`
	Build  BuildConfig           `toml:"build"`
	Redis  RedisConfig           `toml:"redis"`
	Mongo  MongoConfig           `toml:"mongo"`
	Server ServerConfig          `toml:"server"`
	Types  []catalog.PackageType `toml:"types"`
}

// SearchConfig configures the upstream search service.
type SearchConfig struct {
	// URLTemplate must contain one %s placeholder for the encoded query.
	URLTemplate string `toml:"url_template"`
}

// RepoConfig configures the descriptor repository.
type RepoConfig struct {
	BaseURL   string `toml:"base_url"`
	GuessBase string `toml:"guess_base"`
}

// BuildConfig configures the catalog build pipeline.
type BuildConfig struct {
	BatchSize      int      `toml:"batch_size"`
	ReservedPrefix string   `toml:"reserved_prefix"`
	CatalogTTL     duration `toml:"catalog_ttl"`
}

// RedisConfig configures the shared cache. An empty Addr selects the
// in-process cache instead.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the snapshot archive. An empty URI disables it.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration wraps time.Duration for TOML decoding ("1h30m" strings).
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			URLTemplate: "https://search.maven.org/solrsearch/select?q=%s&rows=2000&wt=json",
		},
		Repo: RepoConfig{
			BaseURL:   "https://repo1.maven.org/maven2",
			GuessBase: "https://github.com/packdex",
		},
		Build: BuildConfig{
			BatchSize:      builder.DefaultBatchSize,
			ReservedPrefix: "internal-",
			CatalogTTL:     duration{cache.TTLCatalog},
		},
		Mongo: MongoConfig{
			Database: appName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Types: catalog.DefaultTypes,
	}
}

// LoadConfig reads the TOML file at path over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if len(cfg.Types) == 0 {
		cfg.Types = catalog.DefaultTypes
	}
	return cfg, nil
}
