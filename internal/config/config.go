// Package config loads the importer configuration from the environment,
// with a .env file honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"ocimport/internal/catalog"
)

// Config holds the store connection parameters, the catalog identifiers
// applied to imported products, and the workbook layout settings.
type Config struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	LanguageID    int
	StoreID       int
	LayoutID      int
	StockStatusID int
	Quantity      int
	Minimum       int
	Shipping      int
	Subtract      int
	WeightClassID int
	LengthClassID int

	HeaderRow    int
	DataStartRow int
	Debug        bool
}

// Load reads the configuration. Every key has a default; a malformed
// numeric or boolean value is an error rather than a silent fallback.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     getString("DB_HOST", "localhost"),
		DBName:     getString("DB_NAME", "test"),
		DBUser:     getString("DB_USER", "test"),
		DBPassword: getString("DB_PASSWORD", "test"),
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"DB_PORT", 5432, &cfg.DBPort},
		{"LANGUAGE_ID", 2, &cfg.LanguageID},
		{"STORE_ID", 0, &cfg.StoreID},
		{"LAYOUT_ID", 0, &cfg.LayoutID},
		{"STOCK_STATUS_ID", 7, &cfg.StockStatusID},
		{"PRODUCT_QUANTITY", 10, &cfg.Quantity},
		{"PRODUCT_MINIMUM", 1, &cfg.Minimum},
		{"PRODUCT_SHIPPING", 1, &cfg.Shipping},
		{"PRODUCT_SUBTRACT", 0, &cfg.Subtract},
		{"WEIGHT_CLASS_ID", 1, &cfg.WeightClassID},
		{"LENGTH_CLASS_ID", 2, &cfg.LengthClassID},
		{"HEADER_ROW", 2, &cfg.HeaderRow},
		{"DATA_START_ROW", 3, &cfg.DataStartRow},
	}
	for _, v := range ints {
		n, err := getInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dst = n
	}

	debug, err := getBool("DEBUG", true)
	if err != nil {
		return nil, err
	}
	cfg.Debug = debug

	return cfg, nil
}

// DSN builds the catalog connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword)
}

// Defaults returns the catalog-side view of the configuration.
func (c *Config) Defaults() catalog.Defaults {
	return catalog.Defaults{
		LanguageID:    c.LanguageID,
		StoreID:       c.StoreID,
		LayoutID:      c.LayoutID,
		StockStatusID: c.StockStatusID,
		Quantity:      c.Quantity,
		Minimum:       c.Minimum,
		Shipping:      c.Shipping,
		Subtract:      c.Subtract,
		WeightClassID: c.WeightClassID,
		LengthClassID: c.LengthClassID,
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
