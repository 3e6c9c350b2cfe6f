// Package config loads runtime settings: built-in defaults, then an optional
// YAML file, then .env and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/calc"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/projection"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// DefaultPath is where binaries look for the YAML file when no flag is given.
const DefaultPath = "config/bankability.yaml"

// Config is the full runtime configuration.
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Redis     RedisConfig    `yaml:"redis"`
	Store     StoreConfig    `yaml:"store"`
	Scenarios ScenarioConfig `yaml:"scenarios"`
	Engine    EngineConfig   `yaml:"engine"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // empty: file store
}

type RedisConfig struct {
	Address    string `yaml:"address"` // empty: in-memory result cache
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type StoreConfig struct {
	ModelDir string `yaml:"model_dir"`
}

type ScenarioConfig struct {
	Dir string `yaml:"dir"`
}

type EngineConfig struct {
	StrictIRR     bool      `yaml:"strict_irr"`
	IRRGuess      float64   `yaml:"irr_guess"`
	SeasonalCurve []float64 `yaml:"seasonal_curve"` // 12 factors; empty: default curve
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Server:    ServerConfig{Addr: ":8080"},
		Redis:     RedisConfig{TTLSeconds: 24 * 60 * 60},
		Store:     StoreConfig{ModelDir: ".cache/models"},
		Scenarios: ScenarioConfig{Dir: "scenarios"},
		Engine:    EngineConfig{IRRGuess: calc.DefaultIRRGuess},
	}
}

// Load builds the configuration. path may be empty; a missing file at
// DefaultPath is not an error, a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	// 1. YAML file
	if path == "" {
		path = DefaultPath
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		fmt.Printf("[CONFIG] Loaded %s\n", path)
	}

	// 2. .env, then environment
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString("BANKABILITY_ADDR", &c.Server.Addr)
	setString("DATABASE_URL", &c.Database.URL)
	setString("REDIS_ADDR", &c.Redis.Address)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("MODEL_STORE_DIR", &c.Store.ModelDir)
	setString("SCENARIO_DIR", &c.Scenarios.Dir)

	if err := setInt("REDIS_DB", &c.Redis.DB); err != nil {
		return err
	}
	if err := setInt("CACHE_TTL_SECONDS", &c.Redis.TTLSeconds); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("STRICT_IRR"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_IRR: %w", err)
		}
		c.Engine.StrictIRR = b
	}
	if v, ok := os.LookupEnv("SEASONAL_CURVE"); ok && strings.TrimSpace(v) != "" {
		parts := strings.Split(v, ",")
		curve := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return fmt.Errorf("SEASONAL_CURVE: %w", err)
			}
			curve = append(curve, f)
		}
		c.Engine.SeasonalCurve = curve
	}
	return nil
}

// Validate checks settings that would otherwise fail at request time.
func (c *Config) Validate() error {
	if len(c.Engine.SeasonalCurve) > 0 {
		if _, err := projection.NewSeasonalCurve(c.Engine.SeasonalCurve); err != nil {
			return fmt.Errorf("engine.seasonal_curve: %w", err)
		}
	}
	if c.Redis.TTLSeconds < 0 {
		return fmt.Errorf("redis.ttl_seconds must be >= 0")
	}
	return nil
}

// Curve returns the configured seasonal curve or the default one.
func (c *Config) Curve() projection.SeasonalCurve {
	if len(c.Engine.SeasonalCurve) == 0 {
		return projection.DefaultSeasonalCurve
	}
	curve, err := projection.NewSeasonalCurve(c.Engine.SeasonalCurve)
	if err != nil {
		return projection.DefaultSeasonalCurve
	}
	return curve
}

// Options converts the engine section into calculation options.
func (c *Config) Options() valuation.Options {
	return valuation.Options{
		SeasonalCurve: c.Curve(),
		StrictIRR:     c.Engine.StrictIRR,
		IRRGuess:      c.Engine.IRRGuess,
	}
}

// CacheTTL is the result cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
