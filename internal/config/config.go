package config

import (
	"github.com/caarlos0/env/v11"
)

// Config regroupe les variables d'environnement nécessaires au démarrage.
// Les handlers continuent de lire les secrets ponctuels (Stripe, S3, VAPID)
// directement via os.Getenv au moment de l'appel.
type Config struct {
	DBUrl         string `env:"SUPABASE_DB_URL,required"`
	Port          string `env:"PORT" envDefault:"8080"`
	JWTSecret     string `env:"JWT_SECRET"`
	SupabaseURL   string `env:"NEXT_PUBLIC_SUPABASE_URL"`
	DomainURL     string `env:"DOMAIN_URL"`
	DefaultParkID string `env:"DEFAULT_PARK_ID"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
