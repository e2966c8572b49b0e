package config

import "time"

// Client definition client YAML structure
type Client struct {
	BackendURL string        `mapstructure:"backend_url"`
	Chat       ChatConfig    `mapstructure:"chat"`
	Session    SessionConfig `mapstructure:"session"`
	Blob       BlobConfig    `mapstructure:"blob"`

	RefreshInterval   time.Duration `mapstructure:"refresh_interval"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	NotificationTTL   time.Duration `mapstructure:"notification_ttl"`
}

// ChatConfig chat session timings
type ChatConfig struct {
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	DeliveredAfter      time.Duration `mapstructure:"delivered_after"`
	ReadAfter           time.Duration `mapstructure:"read_after"`
	VoiceRecordDuration time.Duration `mapstructure:"voice_record_duration"`
	RecentLimit         int           `mapstructure:"recent_limit"`
	// StatusSweep "broad" or "precise"
	StatusSweep string `mapstructure:"status_sweep"`
}

// SessionConfig where the signed-in user is kept between runs
type SessionConfig struct {
	// Store "file" or "redis"
	Store string      `mapstructure:"store"`
	Key   string      `mapstructure:"key"`
	Dir   string      `mapstructure:"dir"`
	Redis RedisConfig `mapstructure:"redis"`
}

// BlobConfig attachment reference backend
type BlobConfig struct {
	// Kind "local" or "minio"
	Kind  string      `mapstructure:"kind"`
	MinIO MinIOConfig `mapstructure:"minio"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// Backend definition mock REST backend YAML structure
type Backend struct {
	Port        string         `mapstructure:"port"`
	Collections []string       `mapstructure:"collections"`
	Store       string         `mapstructure:"store"`
	MongoSQL    DatabaseConfig `mapstructure:"mongo"`
	Kafka       KafkaConfig    `mapstructure:"kafka"`
}

// KafkaConfig change feed setting, disabled when Brokers is empty
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	RedisDB  int    `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
