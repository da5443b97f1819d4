package config

import (
	"errors"
	"fmt"
	"os"

	"renthub/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Backup       BackupConfig       `yaml:"backup"`
	Monitoring   MonitoringConfig   `yaml:"monitoring"`
	Logging      LoggingConfig      `yaml:"logging"`
	API          APIConfig          `yaml:"api"`
	Fees         models.FeeTable    `yaml:"fees"`
	Availability AvailabilityConfig `yaml:"availability"`
	Booking      BookingConfig      `yaml:"booking"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Google       GoogleConfig       `yaml:"google"`
	Exports      ExportConfig       `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
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

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type AvailabilityConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	MaxWindowDays   int `yaml:"max_window_days"`
}

type BookingConfig struct {
	MaxAdvanceDays int `yaml:"max_advance_days"`
	MaxStayDays    int `yaml:"max_stay_days"`
}

type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	ManagerChatIDs []int64 `yaml:"manager_chat_ids"`
	Debug          bool    `yaml:"debug"`
}

type GoogleConfig struct {
	GoogleCredentialsFile string `yaml:"credentials_file"`
	BookingSpreadSheetID  string `yaml:"bookings_spreadsheet_id"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; env vars may come from the environment directly.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Expand environment variables inside the YAML before parsing.
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
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Fees.ServiceFeeRate < 0 || c.Fees.ServiceFeeRate >= 1 {
		return fmt.Errorf("service fee rate out of range: %v", c.Fees.ServiceFeeRate)
	}
	if c.Fees.PlatformCommissionRate < 0 || c.Fees.PlatformCommissionRate >= 1 {
		return fmt.Errorf("platform commission rate out of range: %v", c.Fees.PlatformCommissionRate)
	}
	if c.Fees.PointsCapFraction < 0 || c.Fees.PointsCapFraction > 1 {
		return fmt.Errorf("points cap fraction out of range: %v", c.Fees.PointsCapFraction)
	}

	return nil
}

// ValidateListings checks the listing seed file for duplicate or zero IDs and
// non-positive daily rates.
func ValidateListings(listings []models.Listing) error {
	listingIDs := make(map[int64]bool)
	for _, l := range listings {
		if l.ID == 0 {
			return fmt.Errorf("listing '%s' has invalid ID 0", l.Name)
		}
		if listingIDs[l.ID] {
			return fmt.Errorf("duplicate listing ID found: %d", l.ID)
		}
		listingIDs[l.ID] = true

		if l.Rates.DailyRateCents <= 0 {
			return fmt.Errorf("listing '%s' has non-positive daily rate", l.Name)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// auth enabled by default when keys are configured
	if len(c.API.Auth.APIKeys) > 0 {
		c.API.Auth.Enabled = true
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	// Fee defaults: any unset rate falls back to the canonical table.
	defaults := models.DefaultFeeTable()
	if c.Fees.ServiceFeeRate == 0 {
		c.Fees.ServiceFeeRate = defaults.ServiceFeeRate
	}
	if c.Fees.InsuranceRate == 0 {
		c.Fees.InsuranceRate = defaults.InsuranceRate
	}
	if c.Fees.PlatformCommissionRate == 0 {
		c.Fees.PlatformCommissionRate = defaults.PlatformCommissionRate
	}
	if c.Fees.PointsToCents == 0 {
		c.Fees.PointsToCents = defaults.PointsToCents
	}
	if c.Fees.PointsCapFraction == 0 {
		c.Fees.PointsCapFraction = defaults.PointsCapFraction
	}
	if c.Fees.DeliveryFlatFeeCents == 0 {
		c.Fees.DeliveryFlatFeeCents = defaults.DeliveryFlatFeeCents
	}
	if c.Fees.WeeklyThresholdDays == 0 {
		c.Fees.WeeklyThresholdDays = defaults.WeeklyThresholdDays
	}
	if c.Fees.MonthlyThresholdDays == 0 {
		c.Fees.MonthlyThresholdDays = defaults.MonthlyThresholdDays
	}

	if c.Availability.CacheTTLSeconds == 0 {
		c.Availability.CacheTTLSeconds = models.WindowCacheTTL
	}
	if c.Availability.MaxWindowDays == 0 {
		c.Availability.MaxWindowDays = models.DefaultMaxWindowDays
	}
	if c.Booking.MaxAdvanceDays == 0 {
		c.Booking.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if c.Booking.MaxStayDays == 0 {
		c.Booking.MaxStayDays = models.DefaultMaxStayDays
	}
}
