package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. TASKS_SERVER_PORT or TASKS_DATABASE_URL.
const envPrefix = "TASKS"

// Load reads configuration from environment variables, applies defaults,
// and validates the result. Environment variables take precedence over
// defaults. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every configuration key. Registering
// the key is also what lets viper pick up the matching environment variable
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Task Management API")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:8000",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8000",
	})

	v.SetDefault("pagination.default_page_size", 100)
	v.SetDefault("pagination.max_page_size", 1000)
}
