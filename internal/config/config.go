package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort       string `env:"HTTP_PORT" envDefault:"5000"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	JWTSecret      string `env:"JWT_SECRET,required"`
	ClientURL      string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	SessionTTLDays int    `env:"SESSION_TTL_DAYS" envDefault:"7"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser       string `env:"SMTP_USER"`
	SMTPPass       string `env:"SMTP_PASS"`
	SMTPFrom       string `env:"SMTP_FROM"`
	SMTPFromName   string `env:"SMTP_FROM_NAME" envDefault:"EcoFinds"`
	SMTPUseTLS     bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
