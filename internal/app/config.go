package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	LogLevel string

	// WSURL is the realtime backend endpoint.
	WSURL string

	// ConversationID scopes the session; required at startup.
	ConversationID string
	// PeerName labels notifications; SenderKey marks provisional ids.
	PeerName  string
	SenderKey string

	PersistDelay      time.Duration
	HeartbeatInterval time.Duration
	WriteTimeout      time.Duration
	DialTimeout       time.Duration

	// MetricsAddr serves /healthz and /metrics; empty disables the sidecar.
	MetricsAddr string

	// Snapshot store selection: DatabaseURL wins over RedisAddr; neither
	// means the in-memory fallback.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	RedisAddr     string
	RedisPassword string
	RedisDB       int32
	RedisTTL      time.Duration
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		LogLevel: EnvString("CHAT_LOG_LEVEL", "info"),

		WSURL: EnvString("CHAT_WS_URL", "ws://127.0.0.1:8080/ws"),

		ConversationID: EnvString("CHAT_CONVERSATION_ID", ""),
		PeerName:       EnvString("CHAT_PEER_NAME", "Driver"),
		SenderKey:      EnvString("CHAT_SENDER_KEY", "passenger"),

		PersistDelay:      EnvDuration("CHAT_PERSIST_DELAY", 500*time.Millisecond),
		HeartbeatInterval: EnvDuration("CHAT_WS_HEARTBEAT_INTERVAL", 25*time.Second),
		WriteTimeout:      EnvDuration("CHAT_WS_WRITE_TIMEOUT", 5*time.Second),
		DialTimeout:       EnvDuration("CHAT_WS_DIAL_TIMEOUT", 10*time.Second),

		MetricsAddr: EnvString("CHAT_METRICS_ADDR", "127.0.0.1:9090"),

		DatabaseURL: EnvString("CHAT_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("CHAT_DB_MAX_CONNS", 4),
		DBMinConns:  EnvInt32("CHAT_DB_MIN_CONNS", 0),

		RedisAddr:     EnvString("CHAT_REDIS_ADDR", ""),
		RedisPassword: EnvString("CHAT_REDIS_PASSWORD", ""),
		RedisDB:       EnvInt32("CHAT_REDIS_DB", 0),
		RedisTTL:      EnvDuration("CHAT_REDIS_TTL", 0),
	}
}
