package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"keyword-planner-go/pkg/logger"
)

// envKeys lists every key that may be supplied through the environment even
// when the config file leaves it out.
var envKeys = []string{
	"google_ads.developer_token",
	"google_ads.client_id",
	"google_ads.client_secret",
	"google_ads.refresh_token",
	"google_ads.login_customer_id",
	"google_ads.json_key_file_path",
	"google_ads.impersonated_email",
	"google_ads.endpoint",
	"google_ads.api_version",
	"google_ads.timeout_seconds",
	"script_parameters.customer_id",
	"script_parameters.language_id",
	"script_parameters.geo_target_ids",
	"script_parameters.chunk_size",
	"script_parameters.sleep_interval_seconds",
	"script_parameters.include_adult_keywords",
	"logger.level",
	"logger.format",
	"logger.output",
	"logger.time_format",
}

type manager struct {
	mu    sync.Mutex
	viper *viper.Viper
	log   *logger.Logger
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
		log:   logger.GetLogger().WithField("component", "config"),
	}
}

func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (copy config.yaml.example to %s and fill it in)",
				ErrConfigNotFound, configPath, configPath)
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	m.loadDotEnv(configPath)

	if err := m.setupViper(configPath); err != nil {
		return nil, fmt.Errorf("failed to setup viper: %w", err)
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	for _, section := range []string{"google_ads", "script_parameters"} {
		if !m.viper.InConfig(section) {
			return nil, fmt.Errorf("invalid config: missing %q section in %s", section, configPath)
		}
	}

	var config Config
	err := m.viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (m *manager) setupViper(configPath string) error {
	m.viper.SetConfigFile(configPath)
	if filepath.Ext(configPath) == "" {
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	for _, key := range envKeys {
		if err := m.viper.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	m.viper.SetDefault("google_ads.endpoint", DefaultEndpoint)
	m.viper.SetDefault("google_ads.api_version", DefaultAPIVersion)
	m.viper.SetDefault("google_ads.timeout_seconds", DefaultTimeoutSeconds)
	m.viper.SetDefault("script_parameters.chunk_size", DefaultChunkSize)
	m.viper.SetDefault("script_parameters.sleep_interval_seconds", DefaultSleepIntervalSeconds)
	m.viper.SetDefault("script_parameters.include_adult_keywords", false)
	m.viper.SetDefault("logger.level", "info")
	m.viper.SetDefault("logger.format", "console")
	m.viper.SetDefault("logger.output", "stdout")

	return nil
}

// loadDotEnv reads a .env file sitting next to the config, if any. Variables
// already present in the environment win.
func (m *manager) loadDotEnv(configPath string) {
	location := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(location); err != nil {
		return
	}
	if err := godotenv.Load(location); err != nil {
		m.log.WithError(err).WithField("path", location).Warn("Failed to load .env file")
		return
	}
	m.log.WithField("path", location).Debug("Loaded .env file")
}

func normalize(config *Config) {
	gads := &config.GoogleAds
	gads.LoginCustomerID = stripDashes(gads.LoginCustomerID)
	gads.Endpoint = strings.TrimRight(strings.TrimSpace(gads.Endpoint), "/")
	gads.APIVersion = strings.TrimSpace(gads.APIVersion)

	params := &config.ScriptParameters
	params.CustomerID = stripDashes(params.CustomerID)
	params.LanguageID = strings.TrimSpace(params.LanguageID)

	geoIDs := make([]string, 0, len(params.GeoTargetIDs))
	for _, id := range params.GeoTargetIDs {
		if id = strings.TrimSpace(id); id != "" {
			geoIDs = append(geoIDs, id)
		}
	}
	params.GeoTargetIDs = geoIDs
}

func stripDashes(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

func validateConfig(config *Config) error {
	gads := config.GoogleAds
	params := config.ScriptParameters

	if gads.DeveloperToken == "" {
		return fmt.Errorf("google_ads.developer_token is required")
	}

	if gads.JSONKeyFilePath == "" {
		if gads.ClientID == "" || gads.ClientSecret == "" || gads.RefreshToken == "" {
			return fmt.Errorf("google_ads needs client_id, client_secret and refresh_token, or json_key_file_path")
		}
	}

	if gads.LoginCustomerID != "" && !isDigits(gads.LoginCustomerID) {
		return fmt.Errorf("google_ads.login_customer_id must be numeric, got %q", gads.LoginCustomerID)
	}

	if gads.Endpoint == "" || gads.APIVersion == "" {
		return fmt.Errorf("google_ads.endpoint and google_ads.api_version cannot be empty")
	}

	if gads.TimeoutSeconds <= 0 {
		return fmt.Errorf("google_ads.timeout_seconds must be positive")
	}

	if params.CustomerID == "" {
		return fmt.Errorf("script_parameters.customer_id is required")
	}

	if !isDigits(params.CustomerID) {
		return fmt.Errorf("script_parameters.customer_id must be numeric, got %q", params.CustomerID)
	}

	if params.LanguageID == "" {
		return fmt.Errorf("script_parameters.language_id is required")
	}

	if params.ChunkSize < 1 || params.ChunkSize > MaxChunkSize {
		return fmt.Errorf("script_parameters.chunk_size must be between 1 and %d, got %d", MaxChunkSize, params.ChunkSize)
	}

	if params.SleepIntervalSeconds < 0 {
		return fmt.Errorf("script_parameters.sleep_interval_seconds cannot be negative")
	}

	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
