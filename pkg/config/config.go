package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		HTTP     HTTPConfig     `envPrefix:"HTTP_"`
		JWT      JWTConfig      `envPrefix:"JWT_"`
		DB       DBConfig       `envPrefix:"DB_"`
		S3       S3Config       `envPrefix:"S3_"`
		Feed     FeedConfig     `envPrefix:"FEED_"`
		Google   GoogleConfig   `envPrefix:"GOOGLE_"`
		Firebase FirebaseConfig `envPrefix:"FIREBASE_"`
	}

	HTTPConfig struct {
		Port            string        `env:"PORT" envDefault:"8080"`
		AllowOrigins    []string      `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	JWTConfig struct {
		Secret       string        `env:"SECRET" envDefault:"your-secret-key-change-in-production"`
		AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"1h"`
	}

	DBConfig struct {
		DSN             string        `env:"DSN" envDefault:"host=localhost user=postgres password=postgres dbname=feed port=5432 sslmode=disable"`
		MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	// S3Config selects the MinIO asset store when Host is set.
	S3Config struct {
		Host      string `env:"HOST"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"feed"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"true"`
	}

	FeedConfig struct {
		PageSize       int           `env:"PAGE_SIZE" envDefault:"2"`
		AssetDir       string        `env:"ASSET_DIR" envDefault:"."`
		MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
		JanitorWorkers int           `env:"JANITOR_WORKERS" envDefault:"2"`
		SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
		SweepGrace     time.Duration `env:"SWEEP_GRACE" envDefault:"24h"`
	}

	// GoogleConfig enables the Pub/Sub relay when ProjectID is set.
	GoogleConfig struct {
		ProjectID       string `env:"PROJECT_ID"`
		PubSubTopic     string `env:"PUBSUB_TOPIC" envDefault:"feed-posts"`
		PubSubSubName   string `env:"PUBSUB_SUBSCRIPTION"`
		CredentialsFile string `env:"CREDENTIALS"`
	}

	FirebaseConfig struct {
		Credentials string `env:"CREDENTIALS"`
	}
)

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Feed.PageSize <= 0 {
		cfg.Feed.PageSize = 2
	}
	return cfg, nil
}
