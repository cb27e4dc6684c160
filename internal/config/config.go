package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits the admin allow-list
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. ADMIN_IDS is the static allow-list of
// chat user ids permitted to manage the schedule; there is no other
// authorization in the system.
type Config struct {
	Env       string   // application environment (e.g. "dev", "prod")
	Port      string   // HTTP port to listen on
	DBUser    string   // database username
	DBPass    string   // database password (optional)
	DBHost    string   // database host address
	DBPort    string   // database port number
	DBName    string   // database name
	JWTSecret string   // secret used to verify bearer tokens from the chat gateway
	AdminIDs  []uint64 // user ids allowed to call admin endpoints
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),
		AdminIDs:  mustIDList("ADMIN_IDS"),
	}
}

// IsAdmin reports whether the given user id is on the allow-list.
func (c Config) IsAdmin(userID uint64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustIDList parses a required comma-separated list of numeric user ids.
func mustIDList(key string) []uint64 {
	raw := must(key)
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			log.Fatalf("invalid user id in %s: %q", key, p)
		}
		ids = append(ids, n)
	}
	if len(ids) == 0 {
		log.Fatalf("%s must contain at least one user id", key)
	}
	return ids
}
