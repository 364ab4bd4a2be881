package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputCSVPath  string
	OutputCSVPath string

	PricePolicy       string
	SkipBadRows       bool
	MaxConcurrency    int
	LogLevel          string
	NormalizeFeatures bool

	TestRatio               float64
	RandomSeed              int
	TreeMaxDepth            int
	TreeMinImpurityDecrease float64

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		InputCSVPath:  getEnv("INPUT_CSV_PATH", "AB_NYC_2019.csv"),
		OutputCSVPath: getEnv("OUTPUT_CSV_PATH", "cleaned_file.csv"),

		PricePolicy:       getEnv("PRICE_POLICY", "fixed"),
		SkipBadRows:       getEnvBool("SKIP_BAD_ROWS", false),
		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 4),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		NormalizeFeatures: getEnvBool("NORMALIZE_FEATURES", false),

		TestRatio:               getEnvFloat("TEST_RATIO", 0.2),
		RandomSeed:              getEnvInt("RANDOM_SEED", 42),
		TreeMaxDepth:            getEnvInt("TREE_MAX_DEPTH", 3),
		TreeMinImpurityDecrease: getEnvFloat("TREE_MIN_IMPURITY_DECREASE", 0),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "classifier"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "classifier123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
	}
}

// ApplyArgs overrides the input and output paths from positional arguments.
// The tool takes at most two: input path then output path, no flags.
func (c *Config) ApplyArgs(args []string) {
	if len(args) >= 1 && args[0] != "" {
		c.InputCSVPath = args[0]
	}
	if len(args) >= 2 && args[1] != "" {
		c.OutputCSVPath = args[1]
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
