package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once at startup and passed to components. Nothing reads
// the environment after Load returns.
type Config struct {
	AppName    string
	AppVersion string

	DatabaseURL string
	Port        string

	JWTSecret     []byte
	EncryptionKey []byte // 32 bytes, AES-256

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CORSOrigins []string
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// Load reads configuration from the environment. JWT_SECRET and
// ENCRYPTION_KEY are required; everything else has a sensible default.
func Load() (Config, error) {
	cfg := Config{
		AppName:     "PeakTrack",
		AppVersion:  "1.0.0",
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getenv("PORT", "8080"),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	cfg.JWTSecret = []byte(secret)

	keyHex := os.Getenv("ENCRYPTION_KEY")
	if keyHex == "" {
		return Config{}, errors.New("ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return Config{}, fmt.Errorf("ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return Config{}, errors.New("ENCRYPTION_KEY must decode to 32 bytes")
	}
	cfg.EncryptionKey = key

	accessMinutes, err := strconv.Atoi(getenv("ACCESS_TOKEN_EXPIRE_MINUTES", "1440"))
	if err != nil || accessMinutes <= 0 {
		return Config{}, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
	}
	cfg.AccessTokenTTL = time.Duration(accessMinutes) * time.Minute

	refreshDays, err := strconv.Atoi(getenv("REFRESH_TOKEN_EXPIRE_DAYS", "30"))
	if err != nil || refreshDays <= 0 {
		return Config{}, errors.New("REFRESH_TOKEN_EXPIRE_DAYS must be a positive integer")
	}
	cfg.RefreshTokenTTL = time.Duration(refreshDays) * 24 * time.Hour

	origins := getenv("CORS_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}
