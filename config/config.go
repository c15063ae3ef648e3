package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	InputPath     string
	OutputPath    string
	OutputFormat  string
	CSVDelimiter  rune
	InputEncoding string
	DateLayouts   []string
	LogLevel      string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	DataDir        string
	SourceURL      string
	ChromeBin      string
}

// Load reads envFile (".env" when empty) and returns a populated Config.
// A missing file is not an error; system env vars and defaults apply.
func Load(envFile string) *Config {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("[config] No %s file found, falling back to system env vars", envFile)
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "cleaner"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "cleaner123"),
		PostgresDB:       getEnv("POSTGRES_DB", "airbnb_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		InputPath:     getEnv("INPUT_PATH", "./data/listings.csv"),
		OutputPath:    getEnv("OUTPUT_PATH", "./output/listings_clean.csv"),
		OutputFormat:  getEnv("OUTPUT_FORMAT", ""),
		CSVDelimiter:  getEnvRune("CSV_DELIMITER", ','),
		InputEncoding: getEnv("INPUT_ENCODING", "utf-8"),
		DateLayouts:   getEnvList("DATE_LAYOUTS"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		DataDir:        getEnv("DATA_DIR", "./data"),
		SourceURL:      getEnv("SOURCE_URL", "https://insideairbnb.com/get-the-data/"),
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
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

// getEnvRune accepts a single character or the escape "\t".
func getEnvRune(key string, fallback rune) rune {
	val := os.Getenv(key)
	if val == `\t` {
		return '\t'
	}
	if utf8.RuneCountInString(val) != 1 {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(val)
	return r
}

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
