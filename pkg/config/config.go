package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// DevJWTSecret signs tokens in development when JWT_SECRET is unset.
	DevJWTSecret = "supersecretjwtkey"
)

type Config struct {
	Port string `env:"PORT,default=8080"`
	Env  string `env:"ENV,default=development"`

	StoreDriver     string `env:"STORE_DRIVER,default=mongo"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE,default=places"`
	PostgresConnStr string `env:"POSTGRES_CONN_STR"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,default=1h"`
	BcryptCost int           `env:"BCRYPT_COST,default=12"`

	GoogleAPIKey string `env:"GOOGLE_API_KEY"`

	UploadDir       string `env:"UPLOAD_DIR,default=uploads/images"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX,default=/uploads/images"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION,default=us-east-1"`
	AWSAccessKey    string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`

	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	// UsingDevSecret is set when JWTSecret fell back to DevJWTSecret.
	UsingDevSecret bool
}

// Load reads the environment, after loading a .env file if one exists.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, errors.New("JWT_SECRET environment variable not set")
		}
		cfg.JWTSecret = DevJWTSecret
		cfg.UsingDevSecret = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI environment variable not set")
		}
	case DriverPostgres:
		if c.PostgresConnStr == "" {
			return errors.New("POSTGRES_CONN_STR environment variable not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
