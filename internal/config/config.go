package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (dev, prod)
	Port string // HTTP port to listen on

	BookingAPIURL     string        // base URL of the booking API, e.g. https://api.example.com/api
	BookingAPITimeout time.Duration // upper bound for read calls
	JWTSecret         string        // secret shared with the booking API to verify admin tokens

	Timezone    *time.Location // property timezone; decides what "today" is
	SnapshotTTL time.Duration  // how long a month of bookings is served before refetching

	DBUser string // audit database user; audit trail is off when DBHost is empty
	DBPass string
	DBHost string
	DBPort string
	DBName string

	AMQPURL     string   // broker for staff-action events; empty disables publishing
	CORSOrigins []string // allowed browser origins
	DisplayFile string   // optional YAML with grid colours and labels
}

// AuditEnabled reports whether a MySQL audit store is configured.
func (c Config) AuditEnabled() bool { return c.DBHost != "" }

// Load reads configuration values from environment variables.  Required
// variables are enforced by must() and a missing value exits the process.
func Load() Config {
	tzName := envStr("AGENDA_TIMEZONE", "America/Mexico_City")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("config: unknown timezone %q, using UTC: %v", tzName, err)
		loc = time.UTC
	}
	amqpURL := os.Getenv("RABBITMQ_URL")
	if amqpURL == "" {
		amqpURL = os.Getenv("AMQP_URL")
	}
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		BookingAPIURL:     strings.TrimRight(must("BOOKING_API_URL"), "/"),
		BookingAPITimeout: envDur("BOOKING_API_TIMEOUT", 15*time.Second),
		JWTSecret:         must("JWT_SECRET"),
		Timezone:          loc,
		SnapshotTTL:       envDur("SNAPSHOT_TTL", 2*time.Minute),
		DBUser:            os.Getenv("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            envStr("DB_PORT", "3306"),
		DBName:            os.Getenv("DB_NAME"),
		AMQPURL:           amqpURL,
		CORSOrigins:       splitList(envStr("CORS_ALLOW_ORIGINS", "*")),
		DisplayFile:       os.Getenv("DISPLAY_CONFIG"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
