package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	DSN           string
	SessionSecret string
	SecureCookies bool

	// StorageDriver selects the blob backend: "local" (default) or "s3".
	StorageDriver string
	UploadDir     string

	// S3 backend settings (Cloudflare R2 compatible).
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string
}

// Load reads .env if present and falls back to the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := Config{
		Port:            getenv("PORT", "5000"),
		DSN:             os.Getenv("DSN"),
		SessionSecret:   getenv("SESSION_SECRET", "underneath-media-secret-key"),
		SecureCookies:   os.Getenv("SECURE_COOKIES") == "true",
		StorageDriver:   getenv("STORAGE_DRIVER", "local"),
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		AccountID:       os.Getenv("ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("ACCESS_KEY_SECRET"),
		BucketName:      os.Getenv("BUCKET_NAME"),
		PublicURL:       os.Getenv("PUBLIC_URL"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
