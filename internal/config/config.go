package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // rendered paper cache

	AuthSecret string
	TokenTTL   time.Duration

	// first-run superadmin
	AdminEmail    string
	AdminPassHash string // bcrypt

	CORSOrigins []string

	DefaultPageLimit int
}

// Load reads an optional .env file, then the environment. Variables already set
// in the environment win over the file.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000,http://localhost:5173"
	if mode == ModeOnline {
		defOrigins = ""
	}
	return Config{
		Mode:             mode,
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		DBDriver:         envOr("DB_DRIVER", "sqlite"),
		DBDSN:            envOr("DB_DSN", ""),
		BlobBasePath:     envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:       envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTL:         envDuration("TOKEN_TTL", 8*time.Hour),
		AdminEmail:       envOr("ADMIN_EMAIL", "admin@qbank.local"),
		AdminPassHash:    envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOrigins:      csvOr("CORS_ORIGINS", defOrigins),
		DefaultPageLimit: envInt("DEFAULT_PAGE_LIMIT", 10),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
