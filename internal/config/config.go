package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/lokke174/Neimark-hackathon/pkg/log"
)

// Config is read once at startup and passed explicitly; nothing reads the
// environment after Load returns.
type Config struct {
	HTTPAddr string

	// Upstream LLM endpoint
	APIKey           string
	LangflowEndpoint string
	UpstreamTimeout  time.Duration

	// Storage. Driver is "sqlite" (default) or "mysql".
	DBDriver string
	DBDSN    string

	// Optional redis-backed rate limiting; disabled when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimitQPS  int

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the environment into a Config.
func Load() Config {
	_ = godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	apiKey := os.Getenv("API_KEY")
	endpoint := os.Getenv("LANGFLOW_ENDPOINT")
	if apiKey == "" || endpoint == "" {
		log.Warnf("Для запуска проекта вы должны указать переменные окружения:\nAPI_KEY - ключ для взаимодействия с LLM\nLANGFLOW_ENDPOINT - эндпойнт для взаимодействия с LLM")
	}

	upstreamTimeout := 120 * time.Second
	if v := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			upstreamTimeout = time.Duration(n) * time.Second
		}
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "chat.db"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	qps := 10
	if v := os.Getenv("RATE_LIMIT_QPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			qps = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	return Config{
		HTTPAddr: addr,

		APIKey:           apiKey,
		LangflowEndpoint: endpoint,
		UpstreamTimeout:  upstreamTimeout,

		DBDriver: driver,
		DBDSN:    dsn,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		RateLimitQPS:  qps,

		LogLevel:  logLevel,
		LogFormat: logFormat,
	}
}
