package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type AuthConfig struct {
	JWTSecret          string
	AccessTokenMinutes int
	Google             GoogleOAuthConfig
}

// ScheduleConfig bounds every booking interval. HoursStart/HoursEnd are
// hours-of-day in the venue timezone; a booking may end exactly at HoursEnd.
type ScheduleConfig struct {
	HoursStart  int
	HoursEnd    int
	Timezone    string
	SlotMinutes int
}

type StorageConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Schedule ScheduleConfig
	Storage  StorageConfig
	Logger   LoggerConfig
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads config.yaml (if present) and the environment into the process
// configuration. Environment variables override file values, e.g.
// DATABASE_HOST overrides database.host. A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret:          v.GetString("auth.jwt_secret"),
			AccessTokenMinutes: v.GetInt("auth.access_token_minutes"),
			Google: GoogleOAuthConfig{
				ClientID:     v.GetString("auth.google.client_id"),
				ClientSecret: v.GetString("auth.google.client_secret"),
				RedirectURL:  v.GetString("auth.google.redirect_url"),
			},
		},
		Schedule: ScheduleConfig{
			HoursStart:  v.GetInt("schedule.hours_start"),
			HoursEnd:    v.GetInt("schedule.hours_end"),
			Timezone:    v.GetString("schedule.timezone"),
			SlotMinutes: v.GetInt("schedule.slot_minutes"),
		},
		Storage: StorageConfig{
			Bucket:    v.GetString("storage.bucket"),
			Region:    v.GetString("storage.region"),
			Endpoint:  v.GetString("storage.endpoint"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "confhub")
	v.SetDefault("database.name", "confhub")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_minutes", 60)

	// Conference operating hours. The product requirement is a single
	// window; call sites must never hard-code their own bounds.
	v.SetDefault("schedule.hours_start", 9)
	v.SetDefault("schedule.hours_end", 19)
	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.slot_minutes", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

func (c *Config) validate() error {
	if c.Schedule.HoursStart < 0 || c.Schedule.HoursEnd > 24 {
		return fmt.Errorf("schedule hours out of range: %d-%d", c.Schedule.HoursStart, c.Schedule.HoursEnd)
	}
	if c.Schedule.HoursStart >= c.Schedule.HoursEnd {
		return fmt.Errorf("schedule hours_start must precede hours_end")
	}
	if c.Schedule.SlotMinutes <= 0 {
		return fmt.Errorf("schedule slot_minutes must be positive")
	}
	return nil
}

// Get returns the loaded configuration; it panics when called before Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the configuration and whether it has been loaded.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
