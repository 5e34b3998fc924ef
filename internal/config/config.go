package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir           string
	RawProductsPath   string
	CleanProductsPath string
	DBPath            string
	OutputDir         string

	OFFAPIBaseURL   string
	OFFUserAgent    string
	OFFRateLimitRPS int
	OFFTimeoutMs    int
	OFFPageSize     int
	OFFCountry      string
	FetchLimit      int

	CatalogKeywordsPath string

	LogLevel  string
	LogFormat string

	SnapshotDB bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))
	cfg := Config{
		DataDir:           dataDir,
		RawProductsPath:   getEnv("RAW_PRODUCTS_PATH", filepath.Join(dataDir, "products_raw.json")),
		CleanProductsPath: getEnv("CLEAN_PRODUCTS_PATH", filepath.Join(dataDir, "products_clean.json")),
		DBPath:            getEnv("DB_PATH", filepath.Join(dataDir, "mizan.db")),
		OutputDir:         getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		OFFAPIBaseURL:   getEnv("OFF_API_BASE_URL", "https://world.openfoodfacts.org"),
		OFFUserAgent:    getEnv("OFF_USER_AGENT", "Mizan/1.0 (https://mizan.live)"),
		OFFRateLimitRPS: getEnvInt("OFF_RATE_LIMIT_RPS", 2),
		OFFTimeoutMs:    getEnvInt("OFF_TIMEOUT_MS", 30000),
		OFFPageSize:     getEnvInt("OFF_PAGE_SIZE", 30),
		OFFCountry:      getEnv("OFF_COUNTRY", "india"),
		FetchLimit:      getEnvInt("FETCH_LIMIT", 100),

		CatalogKeywordsPath: getEnv("CATALOG_KEYWORDS_PATH", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		SnapshotDB: getEnvBool("SNAPSHOT_DB", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
