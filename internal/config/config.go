package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "TRIPCOST"

// DatabaseConfig holds PostgreSQL settings. An empty Host disables snapshot persistence.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// KafkaConfig holds broker settings. No brokers disables event publishing and consuming.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether brokers are configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// FeedConfig describes the POI feed.
type FeedConfig struct {
	URL             string
	RefreshInterval time.Duration
}

// RoutingConfig describes the outbound routing and geocoding services.
type RoutingConfig struct {
	OSRMURL            string
	NominatimURL       string
	NominatimUserAgent string
	Timeout            time.Duration
}

// ServiceConfig holds all configuration for the trip cost service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	Feed        FeedConfig
	Routing     RoutingConfig
	DBConfig    DatabaseConfig
	KafkaConfig KafkaConfig
	MaxSessions int
}

// Load reads configuration from a .env file, if present, and TRIPCOST_* environment variables.
func Load() (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	return &ServiceConfig{
		Port:   servicePort(v.GetString("SERVICE_PORT")),
		AppEnv: v.GetString("APP_ENV"),
		Feed: FeedConfig{
			URL:             v.GetString("FEED_URL"),
			RefreshInterval: v.GetDuration("FEED_REFRESH_INTERVAL"),
		},
		Routing: RoutingConfig{
			OSRMURL:            v.GetString("OSRM_URL"),
			NominatimURL:       v.GetString("NOMINATIM_URL"),
			NominatimUserAgent: v.GetString("NOMINATIM_USER_AGENT"),
			Timeout:            v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		},
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		MaxSessions: v.GetInt("MAX_SESSIONS"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("FEED_URL", "")
	v.SetDefault("FEED_REFRESH_INTERVAL", "0s")
	v.SetDefault("OSRM_URL", "https://router.project-osrm.org/route/v1/driving")
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("NOMINATIM_USER_AGENT", "CalculadoraRotasCustomizada/1.0")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "20s")
	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tripcost")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_GROUP_PREFIX", "tripcost-")
	v.SetDefault("MAX_SESSIONS", 10000)
}

func servicePort(port string) string {
	if port == "" || strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
