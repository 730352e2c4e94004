package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port        string
	Timezone    string
	DBPath      string
	TimelineCSV string // optional per-crop stage cutoff overrides
	PolicyCSV   string // optional cadence/cooldown overrides
	PolicyXLSX  string // optional workbook variant of the same
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:        get("PORT", "8080"),
		Timezone:    get("TZ", "Asia/Kolkata"),
		DBPath:      get("DB_PATH", "kaset.db"),
		TimelineCSV: get("TIMELINE_CSV", ""),
		PolicyCSV:   get("POLICY_CSV", ""),
		PolicyXLSX:  get("POLICY_XLSX", ""),
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}
