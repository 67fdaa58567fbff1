package config

import "time"

// Config is the root configuration of the lookup server.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Jisho       JishoConfig       `yaml:"jisho"`
	Database    DatabaseConfig    `yaml:"database"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	CORS        CORSConfig        `yaml:"cors"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8787"`
	// ReadHeaderTimeout bounds the request head only; WebSocket
	// connections stay open for the page lifetime.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"SERVER_READ_HEADER_TIMEOUT" env-default:"10s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"SERVER_IDLE_TIMEOUT"        env-default:"60s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SERVER_SHUTDOWN_TIMEOUT"    env-default:"10s"`
}

// CoordinatorConfig holds the lookup queue and cache settings.
type CoordinatorConfig struct {
	// Interval is the minimum time between two remote fetches.
	Interval  time.Duration `yaml:"interval"   env:"COORDINATOR_INTERVAL"   env-default:"1s"`
	CacheSize int           `yaml:"cache_size" env:"COORDINATOR_CACHE_SIZE" env-default:"500"`
}

// JishoConfig holds the remote dictionary settings.
type JishoConfig struct {
	BaseURL string        `yaml:"base_url" env:"JISHO_BASE_URL" env-default:"https://jisho.org"`
	Timeout time.Duration `yaml:"timeout"  env:"JISHO_TIMEOUT"  env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. The store is
// optional: an empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
	RetentionDays   int           `yaml:"retention_days"     env:"DATABASE_RETENTION_DAYS"     env-default:"90"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}

// WebSocketConfig holds settings of the /ws endpoint.
type WebSocketConfig struct {
	SendBuffer        int           `yaml:"send_buffer"         env:"WS_SEND_BUFFER"         env-default:"64"`
	MaxMessageBytes   int64         `yaml:"max_message_bytes"   env:"WS_MAX_MESSAGE_BYTES"   env-default:"65536"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WS_WRITE_TIMEOUT"       env-default:"10s"`
	UpgradesPerMinute int           `yaml:"upgrades_per_minute" env:"WS_UPGRADES_PER_MINUTE" env-default:"60"`
	// OriginPatterns are host patterns accepted in the Origin header, in
	// addition to the request host. Browser extensions connect from
	// chrome-extension:// origins.
	OriginPatterns []string `yaml:"origin_patterns" env:"WS_ORIGIN_PATTERNS" env-separator:","`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
