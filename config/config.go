package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the CCC's official congress site.
const DefaultBaseURL = "https://events.ccc.de/congress/"

// DefaultSuffixes are the speaker page file endings used over the years,
// most common first.
var DefaultSuffixes = []string{".html", ".en.html", ".de.html"}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Snapshot store
	StoreBackend string
	DBDirPath    string
	DBName       string
	Table        string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Fahrplan access
	BaseURL        string
	Suffixes       []string
	RequestTimeout time.Duration
	RequestDelay   time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration

	CSVOutputPath string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		StoreBackend: getEnv("STORE_BACKEND", "sqlite"),
		DBDirPath:    getEnv("DB_DIR_PATH", ""),
		DBName:       getEnv("DB_NAME", "c3speakers"),
		Table:        getEnv("DB_TABLE", "speakers"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "c3speakers"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "c3speakers"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		BaseURL:        getEnv("FAHRPLAN_BASE_URL", DefaultBaseURL),
		Suffixes:       DefaultSuffixes,
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 5)) * time.Second,
		RequestDelay:   time.Duration(getEnvInt("REQUEST_DELAY_MS", 3000)) * time.Millisecond,
		MaxRetries:     getEnvInt("MAX_RETRIES", 1),
		RetryBaseDelay: time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 2000)) * time.Millisecond,

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/speakers.csv"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	cfg.DBDirPath = cfg.ResolveDir()
	return cfg
}

// Default returns the configuration used when nothing is set in the
// environment. Handy for tests.
func Default() *Config {
	return &Config{
		StoreBackend:    "sqlite",
		DBName:          "c3speakers",
		Table:           "speakers",
		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresSSLMode: "disable",
		BaseURL:         DefaultBaseURL,
		Suffixes:        DefaultSuffixes,
		RequestTimeout:  5 * time.Second,
		RequestDelay:    3 * time.Second,
		MaxRetries:      1,
		RetryBaseDelay:  2 * time.Second,
		CSVOutputPath:   "./output/speakers.csv",
		LogLevel:        "info",
	}
}

// ResolveDir returns the directory holding the SQLite databases, falling back
// to the current working directory when none is configured.
func (c *Config) ResolveDir() string {
	if c.DBDirPath != "" {
		return c.DBDirPath
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// SQLitePath returns the database file for the given congress year.
func (c *Config) SQLitePath(year int) string {
	return filepath.Join(c.ResolveDir(), c.DBName+strconv.Itoa(year)+".sqlite")
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
