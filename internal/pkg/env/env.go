package env

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvBool parses a boolean value. Unparsable values fall back to def.
func GetEnvBool(key string, def bool) bool {
	val := GetEnv(key, "")
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

// GetEnvDuration parses a Go duration such as "2s" or "5m". Unparsable or
// negative values fall back to def.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	val := GetEnv(key, "")
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/cinefox to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return
		}
	}

	// Containers configure everything through the OS environment.
	Env = map[string]string{}
	log.Println("[Env] no .env file found, using OS environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
