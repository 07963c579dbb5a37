package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	WeatherAPIKey     string
	WeatherAPIBaseURL string
	WeatherAPITimeout time.Duration

	LocationName     string
	Latitude         string
	Longitude        string
	Language         string
	UnitSystemAPI    string // "m" or "e"
	UnitSystem       string // "metric" or "imperial", host display preference
	NumericPrecision string // "none" or "decimal"
	CalendarDay      bool
	ForecastMode     string // "daily" or "hourly"
	ForecastEnable   bool

	UpdateInterval  time.Duration
	TranslationsDir string

	CacheBackend          string // "in_memory" or "memcached"
	SnapshotTTL           time.Duration
	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	RateLimitRPS   int
	RateLimitBurst int
	RequestTimeout time.Duration

	ShutdownTimeout time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	WeatherAPI struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Location struct {
		Name      string `yaml:"name"`
		Latitude  string `yaml:"latitude"`
		Longitude string `yaml:"longitude"`
	} `yaml:"location"`

	Display struct {
		Language         string `yaml:"language"`
		UnitsAPI         string `yaml:"units_api"`
		UnitSystem       string `yaml:"unit_system"`
		NumericPrecision string `yaml:"numeric_precision"`
		CalendarDay      bool   `yaml:"calendar_day"`
		TranslationsDir  string `yaml:"translations_dir"`
	} `yaml:"display"`

	Forecast struct {
		Mode   string `yaml:"mode"`
		Enable *bool  `yaml:"enable"`
	} `yaml:"forecast"`

	Refresh struct {
		Interval string `yaml:"interval"`
	} `yaml:"refresh"`

	Cache struct {
		Backend   string `yaml:"backend"`
		TTL       string `yaml:"ttl"`
		Memcached struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	HTTP struct {
		RateLimitRPS   int    `yaml:"rate_limit_rps"`
		RateLimitBurst int    `yaml:"rate_limit_burst"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"http"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) and config/secrets.yaml.
// API key comes from WEATHER_API_KEY env or secrets file. Call from project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
		secretsData, err := os.ReadFile(secretsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read secrets file: %w", err)
			}
		} else {
			var sec secretsFile
			if err := yaml.Unmarshal(secretsData, &sec); err != nil {
				return nil, fmt.Errorf("parse secrets file: %w", err)
			}
			cfg.WeatherAPIKey = sec.WeatherAPIKey
		}
	}
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_API_KEY required (set env or config/secrets.yaml weather_api_key)")
	}

	cfg.WeatherAPIBaseURL = fc.WeatherAPI.BaseURL
	if cfg.WeatherAPIBaseURL == "" {
		cfg.WeatherAPIBaseURL = "https://api.weather.com/v3/wx"
	}
	cfg.WeatherAPITimeout = parseDuration(fc.WeatherAPI.Timeout, 10*time.Second)

	cfg.LocationName = fc.Location.Name
	cfg.Latitude = strings.TrimSpace(fc.Location.Latitude)
	cfg.Longitude = strings.TrimSpace(fc.Location.Longitude)

	cfg.Language = fc.Display.Language
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	cfg.UnitSystemAPI = strings.TrimSpace(strings.ToLower(fc.Display.UnitsAPI))
	if cfg.UnitSystemAPI == "" {
		cfg.UnitSystemAPI = "e"
	}
	cfg.UnitSystem = strings.TrimSpace(strings.ToLower(fc.Display.UnitSystem))
	if cfg.UnitSystem == "" {
		if cfg.UnitSystemAPI == "m" {
			cfg.UnitSystem = "metric"
		} else {
			cfg.UnitSystem = "imperial"
		}
	}
	cfg.NumericPrecision = strings.TrimSpace(strings.ToLower(fc.Display.NumericPrecision))
	if cfg.NumericPrecision == "" {
		cfg.NumericPrecision = "none"
	}
	cfg.CalendarDay = fc.Display.CalendarDay
	cfg.TranslationsDir = fc.Display.TranslationsDir
	if cfg.TranslationsDir == "" {
		cfg.TranslationsDir = filepath.Join(cwd, "translations")
	}

	cfg.ForecastMode = strings.TrimSpace(strings.ToLower(fc.Forecast.Mode))
	if cfg.ForecastMode == "" {
		cfg.ForecastMode = "daily"
	}
	cfg.ForecastEnable = true
	if fc.Forecast.Enable != nil {
		cfg.ForecastEnable = *fc.Forecast.Enable
	}

	cfg.UpdateInterval = parseDuration(fc.Refresh.Interval, 15*time.Minute)

	cfg.CacheBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "in_memory"
	}
	cfg.SnapshotTTL = parseDuration(fc.Cache.TTL, 2*cfg.UpdateInterval)
	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Cache.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Cache.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.RateLimitRPS = fc.HTTP.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 100
	}
	cfg.RateLimitBurst = fc.HTTP.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 250
	}
	cfg.RequestTimeout = parseDuration(fc.HTTP.RequestTimeout, 5*time.Second)

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal on empty
// string, parse error, or a non-positive result.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if cfg.Latitude == "" || cfg.Longitude == "" {
		return fmt.Errorf("location.latitude and location.longitude are required")
	}
	switch cfg.UnitSystemAPI {
	case "m", "e":
		// valid
	default:
		return fmt.Errorf("display.units_api must be m or e, got %q", cfg.UnitSystemAPI)
	}
	switch cfg.UnitSystem {
	case "metric", "imperial":
		// valid
	default:
		return fmt.Errorf("display.unit_system must be metric or imperial, got %q", cfg.UnitSystem)
	}
	switch cfg.NumericPrecision {
	case "none", "decimal":
		// valid
	default:
		return fmt.Errorf("display.numeric_precision must be none or decimal, got %q", cfg.NumericPrecision)
	}
	switch cfg.ForecastMode {
	case "daily", "hourly":
		// valid
	default:
		return fmt.Errorf("forecast.mode must be daily or hourly, got %q", cfg.ForecastMode)
	}
	switch cfg.CacheBackend {
	case "in_memory", "memcached":
		// valid
	default:
		return fmt.Errorf("cache.backend must be in_memory or memcached, got %q", cfg.CacheBackend)
	}
	return nil
}
