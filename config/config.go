package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Listen struct {
	BindIP         string        `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"5s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"5s"`
}

type Database struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	URL      string `yaml:"url" env:"DATABASE_URL" env-default:"postgresql://postgres@localhost:5432/invitations"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"invitations"`
	LogLevel string `yaml:"log_level" env:"DB_LOG_LEVEL" env-default:"warn"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	JWTExpiration time.Duration `yaml:"jwt_expiration" env:"JWT_EXPIRATION" env-default:"24h"`
	BcryptCost    int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	AdminName     string        `yaml:"admin_name" env:"ADMIN_NAME" env-default:"Administrator"`
	AdminEmail    string        `yaml:"admin_email" env:"ADMIN_EMAIL"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

type Invitations struct {
	// PublicLinkBase is the guest page URL that an invitation id is appended to.
	PublicLinkBase string `yaml:"public_link_base" env:"PUBLIC_LINK_BASE" env-default:"http://localhost:5173/invitation"`
}

type Log struct {
	Path string `yaml:"path" env:"LOG_PATH"`
}

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	Log         Log         `yaml:"log"`
	Listen      Listen      `yaml:"listen"`
	Database    Database    `yaml:"database"`
	Auth        Auth        `yaml:"auth"`
	CORS        CORS        `yaml:"cors"`
	Invitations Invitations `yaml:"invitations"`
}

// Load reads the config file at path, then applies environment overrides.
// With an empty path only the environment is read.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Auth.JWTExpiration <= 0 {
		return fmt.Errorf("jwt expiration must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (l Listen) Address() string {
	return l.BindIP + ":" + l.Port
}
