package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"soundwatch/internal/domain/geo"
)

// Config holds all application configuration
type Config struct {
	Environment string         `yaml:"environment"`
	Twitter     TwitterConfig  `yaml:"twitter"`
	Archive     ArchiveConfig  `yaml:"archive"`
	Geocoder    GeocoderConfig `yaml:"geocoder"`
	Region      RegionConfig   `yaml:"region"`
	Acquire     AcquireConfig  `yaml:"acquire"`
	NATS        NATSConfig     `yaml:"nats"`
	Server      ServerConfig   `yaml:"server"`
	Analysis    AnalysisConfig `yaml:"analysis"`
	Logging     LoggingConfig  `yaml:"logging"`
}

// TwitterConfig holds credentials and host for the standard-tier client
type TwitterConfig struct {
	BearerToken    string        `yaml:"bearer_token"`
	ConsumerKey    string        `yaml:"consumer_key"`
	ConsumerSecret string        `yaml:"consumer_secret"`
	AccessToken    string        `yaml:"access_token"`
	AccessSecret   string        `yaml:"access_secret"`
	Host           string        `yaml:"host"`
	Timeout        time.Duration `yaml:"timeout"`
}

// ArchiveConfig holds configuration for the full-archive (academic) client
type ArchiveConfig struct {
	BaseURL  string        `yaml:"base_url"`
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// GeocoderConfig holds configuration for the address-to-coordinate service
type GeocoderConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Email     string        `yaml:"email"`
	CallDelay time.Duration `yaml:"call_delay"`
	CacheFile string        `yaml:"cache_file"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RegionConfig holds the acceptance box for geocoded profile locations
type RegionConfig struct {
	Box geo.BoundingBox `yaml:"box"`
}

// AcquireConfig holds configuration for incremental acquisition sessions
type AcquireConfig struct {
	CheckpointFile string `yaml:"checkpoint_file"`
	PageSize       int    `yaml:"page_size"`
	MaxPages       int    `yaml:"max_pages"`
	EventsTopic    string `yaml:"events_topic"`
	PostgresDSN    string `yaml:"postgres_dsn"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string        `yaml:"url"`
	MaxReconnects  int           `yaml:"max_reconnects"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CorsOrigins     []string      `yaml:"cors_origins"`
}

// AnalysisConfig holds paths to the word lists the analysis step loads
type AnalysisConfig struct {
	StopwordsFile    string `yaml:"stopwords_file"`
	PositiveFile     string `yaml:"positive_file"`
	NegativeFile     string `yaml:"negative_file"`
	MoralFile        string `yaml:"moral_file"`
	PolarizationFile string `yaml:"polarization_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables, then applies the
// YAML overlay file if one is given (file values win over env defaults).
func Load(overlayPath string) (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Twitter: TwitterConfig{
			BearerToken:    getEnv("TWITTER_BEARER_TOKEN", ""),
			ConsumerKey:    getEnv("TWITTER_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("TWITTER_CONSUMER_SECRET", ""),
			AccessToken:    getEnv("TWITTER_ACCESS_TOKEN", ""),
			AccessSecret:   getEnv("TWITTER_ACCESS_SECRET", ""),
			Host:           getEnv("TWITTER_HOST", "https://api.twitter.com"),
			Timeout:        getEnvAsDuration("TWITTER_TIMEOUT", 30*time.Second),
		},
		Archive: ArchiveConfig{
			BaseURL:  getEnv("ARCHIVE_BASE_URL", "https://api.twitter.com/2"),
			PageSize: getEnvAsInt("ARCHIVE_PAGE_SIZE", 500),
			Timeout:  getEnvAsDuration("ARCHIVE_TIMEOUT", 60*time.Second),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			Email:     getEnv("GEOCODER_EMAIL", ""),
			CallDelay: getEnvAsDuration("GEOCODER_CALL_DELAY", 1100*time.Millisecond),
			CacheFile: getEnv("GEOCODER_CACHE_FILE", "data/geocode-cache.gob"),
			Timeout:   getEnvAsDuration("GEOCODER_TIMEOUT", 15*time.Second),
		},
		Region: RegionConfig{
			Box: geo.BoundingBox{
				MinLat: getEnvAsFloat("REGION_MIN_LAT", 47.0),
				MaxLat: getEnvAsFloat("REGION_MAX_LAT", 90.0),
				MinLng: getEnvAsFloat("REGION_MIN_LNG", -122.7),
				MaxLng: getEnvAsFloat("REGION_MAX_LNG", -122.0),
			},
		},
		Acquire: AcquireConfig{
			CheckpointFile: getEnv("ACQUIRE_CHECKPOINT_FILE", "data/corpus.gob"),
			PageSize:       getEnvAsInt("ACQUIRE_PAGE_SIZE", 100),
			MaxPages:       getEnvAsInt("ACQUIRE_MAX_PAGES", 10),
			EventsTopic:    getEnv("ACQUIRE_EVENTS_TOPIC", "acquire"),
			PostgresDSN:    getEnv("ACQUIRE_POSTGRES_DSN", ""),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Analysis: AnalysisConfig{
			StopwordsFile:    getEnv("ANALYSIS_STOPWORDS_FILE", "data/stopwords.txt"),
			PositiveFile:     getEnv("ANALYSIS_POSITIVE_FILE", "data/positive-words.txt"),
			NegativeFile:     getEnv("ANALYSIS_NEGATIVE_FILE", "data/negative-words.txt"),
			MoralFile:        getEnv("ANALYSIS_MORAL_FILE", "data/moral-emotional.txt"),
			PolarizationFile: getEnv("ANALYSIS_POLARIZATION_FILE", "data/polarization.txt"),
		},
		Logging: LoggingConfig{
			Dir:   getEnv("LOG_DIR", ""),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if overlayPath != "" {
		if err := applyOverlay(&config, overlayPath); err != nil {
			return config, err
		}
	}

	return config, validate(config)
}

// applyOverlay merges a YAML config file on top of the env-derived config
func applyOverlay(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("unable to parse config file %s: %w", path, err)
	}

	return nil
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Acquire.PageSize < 10 || config.Acquire.PageSize > 100 {
		return fmt.Errorf("acquire page size must be between 10 and 100, got %d", config.Acquire.PageSize)
	}

	if config.Region.Box.MinLat >= config.Region.Box.MaxLat {
		return fmt.Errorf("region box has empty latitude range")
	}

	if config.Region.Box.MinLng >= config.Region.Box.MaxLng {
		return fmt.Errorf("region box has empty longitude range")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
