package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	EnvProduction = "production"
)

// App holds the whole runtime configuration, read from environment variables
type App struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo"`

	// MongoDB
	MongoURI      string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string        `envconfig:"MONGODB_DATABASE" default:"ecommerce"`
	MongoTimeout  time.Duration `envconfig:"MONGODB_TIMEOUT" default:"10s"`

	// PostgreSQL
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"ecommerce"`

	// JWT
	JWTSecret          string `envconfig:"JWT_SECRET_KEY" required:"true"`
	JWTExpirationHours int64  `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// Events; an empty URL disables publishing
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"storefront.events"`
}

// Load reads App from the environment and validates it
func Load() (*App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (want mongo, postgres or memory)", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	if c.JWTExpirationHours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours)
	}
	return &c, nil
}

// IsProduction reports whether error responses must hide internals
func (c *App) IsProduction() bool {
	return c.Env == EnvProduction
}

// PostgresDSN builds the pgx connection string
func (c *App) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
