package config

import (
	"os"
	"strconv"
	"time"

	"fichai/domain"
)

func GetAppName() string {
	v := os.Getenv("APP_NAME")
	if v == "" {
		return "fich.ai"
	}
	return v
}

func GetFiberHttpHost() string {
	env := os.Getenv("HTTP_HOST")
	if env != "" {
		return env
	}
	return "0.0.0.0"
}

func GetFiberHttpPort() string {
	env := os.Getenv("HTTP_PORT")
	if env != "" {
		return env
	}
	return "8000"
}

func GetLogLevel() string {
	v := os.Getenv("LOG_LEVEL")
	if v == "" {
		return "info"
	}
	return v
}

func GetCorsOrigins() string {
	v := os.Getenv("CORS_ALLOW_ORIGINS")
	if v == "" {
		return "*"
	}
	return v
}

func GetJWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GetQRSecret falls back to the JWT secret so a single-secret deployment still works.
func GetQRSecret() []byte {
	if v := os.Getenv("QR_SECRET"); v != "" {
		return []byte(v)
	}
	return GetJWTSecret()
}

func GetJWTTTL() time.Duration {
	return getDuration("JWT_TTL", 24*time.Hour)
}

func GetQRTokenTTL() time.Duration {
	return getDuration("QR_TOKEN_TTL", 60*time.Second)
}

func GetContextTimeout() time.Duration {
	return getDuration("CONTEXT_TIMEOUT", 10*time.Second)
}

func GetDefaultTimezone() string {
	v := os.Getenv("DEFAULT_TIMEZONE")
	if v == "" {
		return domain.DefaultTimezone
	}
	return v
}

func GetMissingCheckoutSchedule() string {
	v := os.Getenv("CRON_MISSING_CHECKOUT")
	if v == "" {
		return "0 23 * * *"
	}
	return v
}

func GetAbsenceSchedule() string {
	v := os.Getenv("CRON_ABSENCE")
	if v == "" {
		return "*/15 * * * *"
	}
	return v
}

func GetLoginRateLimit() int {
	v, err := strconv.Atoi(os.Getenv("LOGIN_RATE_LIMIT"))
	if err != nil || v <= 0 {
		return 10
	}
	return v
}

func GetKioskIssuer() string {
	v := os.Getenv("KIOSK_ISSUER")
	if v == "" {
		return GetAppName()
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		GetLogrusInstance().WithField("key", key).Warnf("invalid duration %q, using %s", v, def)
		return def
	}
	return d
}
