package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"peony/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig                `yaml:"app"`
	Season     SeasonConfig             `yaml:"season"`
	Slots      SlotsConfig              `yaml:"slots"`
	Booking    BookingConfig            `yaml:"booking"`
	Catalog    []models.ServiceCategory `yaml:"catalog"`
	Removal    RemovalConfig            `yaml:"removal"`
	Database   DatabaseConfig           `yaml:"database"`
	Redis      RedisConfig              `yaml:"redis"`
	Sync       SyncConfig               `yaml:"sync"`
	API        APIConfig                `yaml:"api"`
	Monitoring MonitoringConfig         `yaml:"monitoring"`
	Logging    LoggingConfig            `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// DayWindow is one contiguous day range inside a single month.
// From/To are inclusive day-of-month bounds.
type DayWindow struct {
	Month int `yaml:"month"`
	From  int `yaml:"from"`
	To    int `yaml:"to"`
}

func (w DayWindow) Contains(month, day int) bool {
	return month == w.Month && day >= w.From && day <= w.To
}

// SeasonConfig parameterizes the fixed booking window so the same engine can
// be re-pointed at a future season without code changes.
type SeasonConfig struct {
	Year                int         `yaml:"year"`
	Months              []int       `yaml:"months"`
	ReleaseDate         string      `yaml:"release_date"`
	NormalLine          []DayWindow `yaml:"normal_line"`
	Blackout            []DayWindow `yaml:"blackout"`
	RestrictedSurcharge []DayWindow `yaml:"restricted_surcharge"`
	SurchargeOnly       []DayWindow `yaml:"surcharge_only"`
}

type SlotsConfig struct {
	// Template is the ordered default set of open time labels for any
	// bookable date without an override record.
	Template []string `yaml:"template"`
}

type BookingConfig struct {
	// NamePattern rejects transliterated or nickname input; the default
	// requires two or more Han characters.
	NamePattern string `yaml:"name_pattern"`
	// PhonePattern is the fixed local mobile format, 09 + 8 digits.
	PhonePattern string `yaml:"phone_pattern"`
	MinEntries   int    `yaml:"min_entries"`
	SessionTTL   int    `yaml:"session_ttl"`
}

type RemovalConfig struct {
	Options        []models.RemovalOption `yaml:"options"`
	ExtensionPrice string                 `yaml:"extension_price"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	// Namespace scopes keys and the change-feed channel to one deployment.
	Namespace string `yaml:"namespace"`
}

// SyncConfig tunes the periodic override resync loop.
type SyncConfig struct {
	// ResyncInterval is the seconds between full snapshot reloads.
	ResyncInterval int `yaml:"resync_interval"`
	MaxRetries     int `yaml:"max_retries"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Port      int                `yaml:"port"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; config values may reference its variables.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Season.Year == 0 {
		return errors.New("season year is required")
	}
	if len(c.Season.Months) == 0 {
		return errors.New("season months are required")
	}
	if len(c.Slots.Template) == 0 {
		return errors.New("slot template must not be empty")
	}
	if c.Season.ReleaseDate != "" {
		if _, err := models.ParseDateKey(c.Season.ReleaseDate); err != nil {
			return fmt.Errorf("invalid release_date: %w", err)
		}
	}
	if _, err := regexp.Compile(c.Booking.NamePattern); err != nil {
		return fmt.Errorf("invalid name_pattern: %w", err)
	}
	if _, err := regexp.Compile(c.Booking.PhonePattern); err != nil {
		return fmt.Errorf("invalid phone_pattern: %w", err)
	}
	return ValidateCatalog(c.Catalog)
}

func ValidateCatalog(categories []models.ServiceCategory) error {
	// Item IDs must be unique across the whole menu, they key selections.
	itemIDs := make(map[string]bool)
	for _, cat := range categories {
		if cat.ID == "" {
			return fmt.Errorf("category %q has empty ID", cat.Name)
		}
		for _, item := range cat.Items {
			if item.ID == "" {
				return fmt.Errorf("item %q has empty ID", item.Name)
			}
			if itemIDs[item.ID] {
				return fmt.Errorf("duplicate service item ID found: %s", item.ID)
			}
			itemIDs[item.ID] = true
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}

	if c.Booking.NamePattern == "" {
		c.Booking.NamePattern = `^[\p{Han}]{2,}$`
	}
	if c.Booking.PhonePattern == "" {
		c.Booking.PhonePattern = `^09\d{8}$`
	}
	if c.Booking.MinEntries == 0 {
		c.Booking.MinEntries = models.MinCartEntries
	}
	if c.Booking.SessionTTL == 0 {
		c.Booking.SessionTTL = models.DefaultSessionTTL
	}

	if c.Redis.Namespace == "" {
		c.Redis.Namespace = "peony"
	}
	if c.Sync.ResyncInterval == 0 {
		c.Sync.ResyncInterval = 600
	}
	if c.Sync.MaxRetries == 0 {
		c.Sync.MaxRetries = 3
	}

	if len(c.Season.Months) == 0 && c.Season.Year != 0 {
		c.Season.Months = []int{1, 2}
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = float64(models.RateLimitRequests) / models.RateLimitWindow
		c.API.RateLimit.Burst = 10
	}
}
