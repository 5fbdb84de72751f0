package global

import (
	"os"
	"strconv"
	"time"
)

// AppConfig carries all runtime settings for the gateway node.
type AppConfig struct {
	GatewayID string // node ID, also written into the presence mirror
	Addr      string // HTTP/WS listen address

	JWTSecret []byte

	SendQueueSize int // per-connection outbound queue
	FanoutWorkers int // max concurrent recipient deliveries per message

	DirectoryTimeout time.Duration
	TranslateTimeout time.Duration
	StoreTimeout     time.Duration

	Translate TranslateConfig
	Redis     RedisConfig
	Mongo     MongoConfig

	PresenceTTL time.Duration
}

type TranslateConfig struct {
	Endpoint string
	APIKey   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

// Load builds the config from the environment, falling back to dev defaults.
func Load() AppConfig {
	return AppConfig{
		GatewayID: envStr("GATEWAY_ID", "msg_gw-1"),
		Addr:      envStr("GATEWAY_ADDR", ":8080"),

		JWTSecret: []byte(envStr("JWT_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o=")),

		SendQueueSize: envInt("SEND_QUEUE_SIZE", 64),
		FanoutWorkers: envInt("FANOUT_WORKERS", 8),

		DirectoryTimeout: envDur("DIRECTORY_TIMEOUT", 2*time.Second),
		TranslateTimeout: envDur("TRANSLATE_TIMEOUT", 3*time.Second),
		StoreTimeout:     envDur("STORE_TIMEOUT", 5*time.Second),

		Translate: TranslateConfig{
			Endpoint: envStr("TRANSLATE_ENDPOINT", "https://translation.googleapis.com/language/translate/v2"),
			APIKey:   os.Getenv("GOOGLE_API_KEY"),
		},
		Redis: RedisConfig{
			Addr:     envStr("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:      envStr("MONGO_URI", "mongodb://localhost:27017"),
			Database: envStr("MONGO_DB", "GlobeTalk"),
		},

		PresenceTTL: envDur("PRESENCE_TTL", 2*time.Minute),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
