package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JWTSecret          string
	GoogleClientID     string
	AllowedOrigins     []string
	AccessTokenMinutes = 60 * 24
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system ENV")
	} else {
		log.Println("✅ .env loaded")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}

	if raw := GetEnv("CORS_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				AllowedOrigins = append(AllowedOrigins, o)
			}
		}
	}
	if len(AllowedOrigins) == 0 {
		// common dev hosts
		AllowedOrigins = []string{
			"http://localhost:4200",
			"http://127.0.0.1:4200",
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
