package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config configuración completa de la aplicación.
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	DB    DBConfig
	JWT   JWTConfig
	Redis RedisConfig
}

// AppConfig identidad y entorno del servicio.
type AppConfig struct {
	Name string
	Env  string // development | staging | production
}

// HTTPConfig parámetros del servidor HTTP.
type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DBConfig conexión a PostgreSQL.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// DSN cadena de conexión pgx.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// JWTConfig firma de tokens.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// RedisConfig cache de snapshots. Addr vacío desactiva el cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Load lee la configuración desde variables de entorno y, si existe, un
// archivo .env en el directorio de trabajo.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// El .env es opcional; las variables de entorno siempre mandan.
	_ = viper.ReadInConfig()

	viper.SetDefault("APP_NAME", "cardstock-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("HTTP_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "cardstock")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRATION", "24h")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL", "5m")

	cfg := &Config{
		App: AppConfig{
			Name: viper.GetString("APP_NAME"),
			Env:  viper.GetString("APP_ENV"),
		},
		HTTP: HTTPConfig{
			Port:         viper.GetString("HTTP_PORT"),
			ReadTimeout:  viper.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			Expiration: viper.GetDuration("JWT_EXPIRATION"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetDuration("REDIS_TTL"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio")
	}
	return cfg, nil
}
