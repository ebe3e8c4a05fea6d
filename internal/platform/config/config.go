package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr          string
	PostgresURL   string
	RedisURL      string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	// Session enrichment lookups.
	IPLookupURL   string
	GeoLookupURL  string
	LookupTimeout time.Duration

	// Optional Kafka audit sink; empty means channel worker only.
	KafkaBrokers []string
	AuditTopic   string
}

// Redis holds connection tuning for the go-redis client.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:          getenv("PRECINCT_ADDR", ":8080"),
		PostgresURL:   os.Getenv("PRECINCT_POSTGRES_URL"),
		RedisURL:      os.Getenv("PRECINCT_REDIS_URL"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getenv("JWT_ISSUER", "precinct"),
		JWTAudience:   getenv("JWT_AUDIENCE", "precinct-console"),
		TokenTTL:      getduration("PRECINCT_TOKEN_TTL", 12*time.Hour),
		IPLookupURL:   getenv("PRECINCT_IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
		GeoLookupURL:  getenv("PRECINCT_GEO_LOOKUP_URL", "https://ipapi.co"),
		LookupTimeout: getduration("PRECINCT_LOOKUP_TIMEOUT", 5*time.Second),
		AuditTopic:    getenv("PRECINCT_AUDIT_TOPIC", "precinct.audit"),
	}

	if brokers := os.Getenv("PRECINCT_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

// RedisFromEnv builds Redis client configuration with pooling defaults.
func RedisFromEnv() Redis {
	return Redis{
		URL:          os.Getenv("PRECINCT_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
