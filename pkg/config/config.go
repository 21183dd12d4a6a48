package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config configuración completa de la aplicación.
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	DB   DBConfig
	JWT  JWTConfig
}

type AppConfig struct {
	Name     string
	Env      string // development | production
	LogLevel string
}

type HTTPConfig struct {
	Port            int
	ShutdownTimeout int // segundos
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret        string
	ExpiryMinutes int
}

// Addr dirección de escucha del servidor HTTP.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

// DSN construye la cadena de conexión de Postgres.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Load lee configuración de variables de entorno y opcionalmente de un archivo .env.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// El .env es opcional; en producción todo viene del entorno
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigParseError); ok {
			return nil, fmt.Errorf("leyendo .env: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:     getString(v, "APP_NAME", "stockcore"),
			Env:      getString(v, "APP_ENV", "development"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Port:            getInt(v, "HTTP_PORT", 8080),
			ShutdownTimeout: getInt(v, "HTTP_SHUTDOWN_TIMEOUT", 10),
		},
		DB: DBConfig{
			Host:     getString(v, "DB_HOST", "localhost"),
			Port:     getInt(v, "DB_PORT", 5432),
			User:     getString(v, "DB_USER", "postgres"),
			Password: getString(v, "DB_PASSWORD", ""),
			Name:     getString(v, "DB_NAME", "stockcore"),
			SSLMode:  getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:        getString(v, "JWT_SECRET", ""),
			ExpiryMinutes: getInt(v, "JWT_EXPIRY_MINUTES", 60),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env != "development" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio fuera de development")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}
