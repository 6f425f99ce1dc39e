package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	Storage     string
	DatabaseURL string
	CORSOrigins []string
	// Record source used by views
	RecordSource      string
	RecordSourceURL   string
	RecordSourceToken string
	RequestTimeout    time.Duration
	// Views
	ViewTTL        time.Duration
	ViewSweepEvery time.Duration
	// Chart
	ChartTimeUnit      string
	ChartTooltipFormat string
	ChartLocale        string
	ChartTimeZone      string
	ChartWidth         int
	ChartHeight        int
	ZoomInFactor       float64
	ZoomOutFactor      float64
	WheelSpeed         float64
	PanModifier        string
	ZoomDragModifier   string
	// Redis (idempotency)
	IdempotencyBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisTTL           time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func atofDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func msDef(key string, def int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(def)), def)) * time.Millisecond
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

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8080"),
		Storage:            getEnv("STORAGE", "pg"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		RecordSource:       getEnv("RECORD_SOURCE", "local"),
		RecordSourceURL:    getEnv("RECORD_SOURCE_URL", ""),
		RecordSourceToken:  getEnv("RECORD_SOURCE_TOKEN", ""),
		RequestTimeout:     msDef("REQUEST_TIMEOUT_MS", 3000),
		ViewTTL:            msDef("VIEW_TTL_MS", 30*60*1000),
		ViewSweepEvery:     msDef("VIEW_SWEEP_MS", 60*1000),
		ChartTimeUnit:      getEnv("CHART_TIME_UNIT", "hour"),
		ChartTooltipFormat: getEnv("CHART_TOOLTIP_FORMAT", "Pp"),
		ChartLocale:        getEnv("CHART_LOCALE", "en-US"),
		ChartTimeZone:      getEnv("CHART_TIMEZONE", ""),
		ChartWidth:         atoiDef(getEnv("CHART_WIDTH", "800"), 800),
		ChartHeight:        atoiDef(getEnv("CHART_HEIGHT", "400"), 400),
		ZoomInFactor:       atofDef(getEnv("ZOOM_IN_FACTOR", "0.8"), 0.8),
		ZoomOutFactor:      atofDef(getEnv("ZOOM_OUT_FACTOR", "1.25"), 1.25),
		WheelSpeed:         atofDef(getEnv("WHEEL_SPEED", "0.1"), 0.1),
		PanModifier:        getEnv("PAN_MODIFIER", "ctrl"),
		ZoomDragModifier:   getEnv("ZOOM_DRAG_MODIFIER", "shift"),
		IdempotencyBackend: getEnv("IDEMPOTENCY_BACKEND", "redis"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:           msDef("IDEMPOTENCY_TTL_MS", 86400000),
	}
}
