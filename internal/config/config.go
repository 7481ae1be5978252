package config

import (
	"errors"
	"time"

	"keyword-planner-go/pkg/logger"
)

// ErrConfigNotFound is returned by Load when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

const (
	DefaultChunkSize            = 10
	DefaultSleepIntervalSeconds = 1.0
	DefaultEndpoint             = "https://googleads.googleapis.com"
	DefaultAPIVersion           = "v21"
	DefaultTimeoutSeconds       = 60

	// MaxChunkSize is the largest keyword seed GenerateKeywordIdeas accepts.
	MaxChunkSize = 20

	EnvPrefix = "KEYWORD_PLANNER"
)

type Config struct {
	GoogleAds        GoogleAdsConfig        `mapstructure:"google_ads"`
	ScriptParameters ScriptParametersConfig `mapstructure:"script_parameters"`
	Logger           logger.Config          `mapstructure:"logger"`
}

// GoogleAdsConfig mirrors the credential block of the vendor client library's
// google-ads.yaml so existing files can be pasted in unchanged.
type GoogleAdsConfig struct {
	DeveloperToken    string `mapstructure:"developer_token"`
	ClientID          string `mapstructure:"client_id"`
	ClientSecret      string `mapstructure:"client_secret"`
	RefreshToken      string `mapstructure:"refresh_token"`
	LoginCustomerID   string `mapstructure:"login_customer_id"`
	JSONKeyFilePath   string `mapstructure:"json_key_file_path"`
	ImpersonatedEmail string `mapstructure:"impersonated_email"`
	Endpoint          string `mapstructure:"endpoint"`
	APIVersion        string `mapstructure:"api_version"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
}

type ScriptParametersConfig struct {
	CustomerID           string   `mapstructure:"customer_id"`
	LanguageID           string   `mapstructure:"language_id"`
	GeoTargetIDs         []string `mapstructure:"geo_target_ids"`
	ChunkSize            int      `mapstructure:"chunk_size"`
	SleepIntervalSeconds float64  `mapstructure:"sleep_interval_seconds"`
	IncludeAdultKeywords bool     `mapstructure:"include_adult_keywords"`
}

func (g GoogleAdsConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (s ScriptParametersConfig) SleepInterval() time.Duration {
	return time.Duration(s.SleepIntervalSeconds * float64(time.Second))
}

type Manager interface {
	Load(configPath string) (*Config, error)
}
