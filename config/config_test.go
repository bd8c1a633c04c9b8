package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.App.Port)
	require.Equal(t, "echoo", cfg.Mongo.Database)
	require.Equal(t, 10*time.Second, cfg.Auth.HandshakeTimeout)
	require.Equal(t, "echoo.events", cfg.NATS.SubjectPrefix)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("AUTH_HANDSHAKE_TIMEOUT", "3s")
	t.Setenv("AWS_BUCKET_NAME", "media")
	t.Setenv("REDIS_MESSAGE_LIMIT", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	require.Equal(t, 3*time.Second, cfg.Auth.HandshakeTimeout)
	require.Equal(t, "media", cfg.S3.Bucket)
	require.Equal(t, 5, cfg.Redis.MessageLimit)
}

func TestSchemeKeys(t *testing.T) {
	keys := AuthConfig{UserSignature: "u", AdminSignature: "a"}.SchemeKeys()
	require.Equal(t, []byte("u"), keys["bearer"])
	require.Equal(t, []byte("a"), keys["admin"])

	keys = AuthConfig{UserSignature: "u"}.SchemeKeys()
	_, ok := keys["admin"]
	require.False(t, ok)
}
