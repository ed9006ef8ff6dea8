package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	StorageDriver string
	HTTPPort      string
	LogLevel      string
	CORSOrigins   []string

	// BaseCurrency1 and BaseCurrency2 only seed the ledger settings on first
	// start. Afterwards the persisted settings are authoritative.
	BaseCurrency1 string
	BaseCurrency2 string

	BankAPIURL       string
	BankAPIToken     string
	BankAccount      string
	BankFetchTimeout time.Duration
	BankMinInterval  time.Duration
}

// PostgresDSN builds the lib/pq connection string. Credentials are escaped.
func (c *Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresAddress, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return dsn.String()
}

// LoadDotEnv loads variables from the given .env files (or ./.env when none
// are given). A missing default file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	return godotenv.Load(files...)
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		StorageDriver: StorageDriverPostgres,
		HTTPPort:      "9446",
		LogLevel:      "info",
		CORSOrigins:   []string{"*"},

		BaseCurrency1: "UAH",
		BaseCurrency2: "PLN",

		BankAPIURL:       "https://api.monobank.ua",
		BankAccount:      "0",
		BankFetchTimeout: 30 * time.Second,
		BankMinInterval:  60 * time.Second,
	}

	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")

	setString(&env.StorageDriver, "STORAGE_DRIVER")
	setString(&env.HTTPPort, "HTTP_PORT")
	setString(&env.LogLevel, "LOG_LEVEL")

	setString(&env.BaseCurrency1, "BASE_CURRENCY_1")
	setString(&env.BaseCurrency2, "BASE_CURRENCY_2")

	setString(&env.BankAPIURL, "BANK_API_URL")
	setString(&env.BankAPIToken, "BANK_API_TOKEN")
	setString(&env.BankAccount, "BANK_ACCOUNT")

	if origins := os.Getenv("CORS_ORIGINS"); len(origins) != 0 {
		env.CORSOrigins = strings.Split(origins, ",")
	}

	if err := setDuration(&env.BankFetchTimeout, "BANK_FETCH_TIMEOUT"); err != nil {
		return nil, err
	}
	if err := setDuration(&env.BankMinInterval, "BANK_MIN_INTERVAL"); err != nil {
		return nil, err
	}

	env.BaseCurrency1 = strings.ToUpper(env.BaseCurrency1)
	env.BaseCurrency2 = strings.ToUpper(env.BaseCurrency2)

	switch env.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", env.StorageDriver)
	}

	return &env, nil
}

func setString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func setDuration(target *time.Duration, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	*target = d
	return nil
}
