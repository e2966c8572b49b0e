package config

import (
	"time"

	"github.com/spf13/viper"
)

// default values, used when the yaml omits a key
const (
	DefaultRefreshInterval     = 2 * time.Second
	DefaultHeartbeatInterval   = 30 * time.Second
	DefaultNotificationTTL     = 3 * time.Second
	DefaultPollInterval        = 2 * time.Second
	DefaultDeliveredAfter      = 1 * time.Second
	DefaultReadAfter           = 3 * time.Second
	DefaultVoiceRecordDuration = 3 * time.Second
	DefaultRecentLimit         = 10
	DefaultSessionKey          = "whatsapp_user"
)

// SweepBroad / SweepPrecise status promotion modes
const (
	SweepBroad   = "broad"
	SweepPrecise = "precise"
)

// DefaultCollections resources served by the mock backend
var DefaultCollections = []string{"users", "contacts", "groups", "messages"}

func setDefaults(v *viper.Viper) {
	// client
	v.SetDefault("backend_url", "http://localhost:3001")
	v.SetDefault("refresh_interval", DefaultRefreshInterval)
	v.SetDefault("heartbeat_interval", DefaultHeartbeatInterval)
	v.SetDefault("notification_ttl", DefaultNotificationTTL)
	v.SetDefault("chat.poll_interval", DefaultPollInterval)
	v.SetDefault("chat.delivered_after", DefaultDeliveredAfter)
	v.SetDefault("chat.read_after", DefaultReadAfter)
	v.SetDefault("chat.voice_record_duration", DefaultVoiceRecordDuration)
	v.SetDefault("chat.recent_limit", DefaultRecentLimit)
	v.SetDefault("chat.status_sweep", SweepBroad)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.key", DefaultSessionKey)
	v.SetDefault("session.dir", ".")
	v.SetDefault("blob.kind", "local")

	// backend
	v.SetDefault("port", "3001")
	v.SetDefault("collections", DefaultCollections)
	v.SetDefault("store", "memory")
}

// DefaultClient client config with every default applied
func DefaultClient() Client {
	return Client{
		BackendURL: "http://localhost:3001",
		Chat: ChatConfig{
			PollInterval:        DefaultPollInterval,
			DeliveredAfter:      DefaultDeliveredAfter,
			ReadAfter:           DefaultReadAfter,
			VoiceRecordDuration: DefaultVoiceRecordDuration,
			RecentLimit:         DefaultRecentLimit,
			StatusSweep:         SweepBroad,
		},
		Session: SessionConfig{
			Store: "file",
			Key:   DefaultSessionKey,
			Dir:   ".",
		},
		Blob:              BlobConfig{Kind: "local"},
		RefreshInterval:   DefaultRefreshInterval,
		HeartbeatInterval: DefaultHeartbeatInterval,
		NotificationTTL:   DefaultNotificationTTL,
	}
}
