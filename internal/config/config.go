// Package config defines the application configuration and its loading.
// The Config struct is constructed once at process start and passed
// explicitly into the layers that need it; nothing reads it globally.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Pagination PaginationConfig `mapstructure:"pagination" validate:"required"`
}

// AppConfig identifies the application to clients and health checks.
type AppConfig struct {
	Name    string `mapstructure:"name"    validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
	Debug   bool   `mapstructure:"debug"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host     string `mapstructure:"host"      validate:"required"`
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// CORSConfig lists the origins allowed to call the API cross-origin.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PaginationConfig bounds the list and search page windows.
type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"required,gt=0"`
	MaxPageSize     int `mapstructure:"max_page_size"     validate:"required,gtefield=DefaultPageSize"`
}
