package config

import (
	"os"
	"strings"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=core_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultChannelID = "OakApp"
const defaultChannelKey = "OakChannelKey001"
const defaultLogLevel = "info"
const defaultLogFormat = "json"
const defaultMigrationsDir = "migrations"

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	HTTPAddr      string
	ChannelID     string
	ChannelKey    string
	LogLevel      string
	LogFormat     string
}

func Load() (Config, error) {
	return Config{
		DatabaseDSN:   normalizeConnectionString(envOr("DATABASE_DSN", defaultConnectionString)),
		MigrationsDir: envOr("MIGRATIONS_DIR", defaultMigrationsDir),
		HTTPAddr:      envOr("HTTP_ADDR", defaultHTTPAddr),
		ChannelID:     envOr("CHANNEL_ID", defaultChannelID),
		ChannelKey:    envOr("CHANNEL_KEY", defaultChannelKey),
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
		LogFormat:     envOr("LOG_FORMAT", defaultLogFormat),
	}, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// normalizeConnectionString accepts both libpq keyword DSNs and the
// semicolon-separated form used by the provisioning tooling.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
