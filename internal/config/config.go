package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса, загружаемая из TOML файла
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	OpenHours  OpenHoursConfig  `toml:"openhours"`
	AccessCode AccessCodeConfig `toml:"accesscode"`
	Booking    BookingConfig    `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // путь к файлу или "stdout"
	Level string `toml:"level"` // debug / info / warn / error
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// OpenHoursConfig настройки клиента сервиса часов работы
type OpenHoursConfig struct {
	URL             string `toml:"url"`
	Timeout         int    `toml:"timeout"`           // секунды
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"` // TTL кэша ответов
}

// AccessCodeConfig настройки клиента сервиса кодов доступа
type AccessCodeConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	// Таймзона объектов (все wall-clock вычисления выполняются в ней)
	Timezone string `toml:"timezone"`

	// Горизонт, на который сервис часов работы отдает расписание
	// Дата окончания серии не может выходить за today + horizon_days
	HorizonDays int `toml:"horizon_days"`

	// Шаг начала слота по умолчанию, если у ресурса он не задан
	DefaultStartIntervalMinutes int `toml:"default_start_interval_minutes"`
}

// Load загружает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "reservation-service"
	}
	if cfg.OpenHours.CacheTTLMinutes == 0 {
		cfg.OpenHours.CacheTTLMinutes = 15
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "Europe/Helsinki"
	}
	if cfg.Booking.HorizonDays == 0 {
		cfg.Booking.HorizonDays = 730
	}
	if cfg.Booking.DefaultStartIntervalMinutes == 0 {
		cfg.Booking.DefaultStartIntervalMinutes = 15
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if cfg.OpenHours.URL == "" {
		return fmt.Errorf("%w: openhours.url is required", ErrInvalidConfig)
	}
	if cfg.Booking.HorizonDays < 0 {
		return fmt.Errorf("%w: booking.horizon_days must not be negative", ErrInvalidConfig)
	}
	return nil
}
