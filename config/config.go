// neoboard/config/config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	AppVersion = "1.2.0"

	// File Upload Limits
	MaxIDCardSize = 5 * 1024 * 1024 // 5MB
	// Multipart memory ceiling, not a business limit.
	MaxFormMemory = 32 * 1024 * 1024

	IDCardSubdir = "id_cards"
)

// AllowedImageExtensions is the allow-list for content image uploads.
// Identity documents are not extension-restricted, only size-capped.
var AllowedImageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

// Config holds the runtime settings read from the environment.
type Config struct {
	Port      string
	DBPath    string
	UploadDir string

	S3Enabled   bool
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3UseSSL    bool
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load reads .env (if present) and the NB_* environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	return &Config{
		Port:      getEnv("NB_PORT", "8080"),
		DBPath:    getEnv("NB_DB_PATH", "./neoboard.db?_journal_mode=WAL"),
		UploadDir: getEnv("NB_UPLOAD_DIR", "./uploads"),

		S3Enabled:   getEnv("NB_S3_ENABLED", "false") == "true",
		S3Endpoint:  getEnv("NB_S3_ENDPOINT", ""),
		S3AccessKey: getEnv("NB_S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("NB_S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("NB_S3_BUCKET", ""),
		S3Region:    getEnv("NB_S3_REGION", "us-east-1"),
		S3UseSSL:    getEnv("NB_S3_USE_SSL", "true") == "true",
	}
}
