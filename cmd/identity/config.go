package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/vkarpov/identity/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultHasher       = "sha256"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the identity service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Symmetric key used to sign and verify access tokens
	SecretKey string

	// Issuer and audience embedded in every issued token
	Issuer   string
	Audience string

	// Password hashing scheme: sha256 (historical default) or bcrypt
	PasswordHasher string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:       defaultLoggingLevel,
		ListenAddr:     defaultListenAddr,
		Environment:    defaultEnvironment,
		PasswordHasher: defaultHasher,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":     setString(&c.ListenAddr),
		"DATABASE_URI":    setString(&c.DatabaseDSN),
		"SECRET_KEY":      setString(&c.SecretKey),
		"JWT_ISSUER":      setString(&c.Issuer),
		"JWT_AUDIENCE":    setString(&c.Audience),
		"PASSWORD_HASHER": setString(&c.PasswordHasher),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("identity", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign access tokens")
	fs.StringVar(&c.Issuer, "issuer", c.Issuer, "Access token issuer")
	fs.StringVar(&c.Audience, "audience", c.Audience, "Access token audience")
	fs.StringVar(&c.PasswordHasher, "hasher", c.PasswordHasher, "Password hashing scheme (sha256, bcrypt)")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// Validate checks the options that have no sane default.
// A missing one is a fatal startup condition, not a runtime fault.
func (c *Config) Validate() error {
	required := map[string]string{
		"database": c.DatabaseDSN,
		"secret key": c.SecretKey,
		"issuer":   c.Issuer,
		"audience": c.Audience,
	}

	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required but not set", name)
		}
	}

	return nil
}
