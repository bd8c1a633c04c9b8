package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig   `envconfig:"APP"`
	Mongo MongoConfig `envconfig:"MONGO"`
	Redis RedisConfig `envconfig:"REDIS"`
	NATS  NATSConfig  `envconfig:"NATS"`
	S3    S3Config    `envconfig:"AWS"`
	Auth  AuthConfig  `envconfig:"AUTH"`
	Mail  MailConfig  `envconfig:"MAIL"`
}

type AppConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Mode string `envconfig:"MODE" default:"debug"`
	Name string `envconfig:"NAME" default:"echoo"`
}

type MongoConfig struct {
	URI      string        `envconfig:"URI" default:"mongodb://localhost:27017"`
	Database string        `envconfig:"DATABASE" default:"echoo"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	Addr         string        `envconfig:"ADDR"`
	Password     string        `envconfig:"PASSWORD"`
	DB           int           `envconfig:"DB" default:"0"`
	PresenceTTL  time.Duration `envconfig:"PRESENCE_TTL" default:"5m"`
	MessageLimit int           `envconfig:"MESSAGE_LIMIT" default:"60"`
}

type NATSConfig struct {
	URL           string `envconfig:"URL"`
	SubjectPrefix string `envconfig:"SUBJECT_PREFIX" default:"echoo.events"`
}

type S3Config struct {
	Region     string `envconfig:"REGION"`
	Bucket     string `envconfig:"BUCKET_NAME"`
	AccessKey  string `envconfig:"ACCESS_KEY_ID"`
	SecretKey  string `envconfig:"SECRET_ACCESS_KEY"`
	Endpoint   string `envconfig:"ENDPOINT"`
	PublicBase string `envconfig:"PUBLIC_BASE"`
}

type AuthConfig struct {
	UserSignature    string        `envconfig:"USER_SIGNATURE" default:"change-me"`
	AdminSignature   string        `envconfig:"ADMIN_SIGNATURE"`
	HandshakeTimeout time.Duration `envconfig:"HANDSHAKE_TIMEOUT" default:"10s"`
}

type MailConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"no-reply@echoo.local"`
}

// LoadConfig reads an optional .env file and decodes the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SchemeKeys returns the signing key registered for each credential scheme.
// Schemes without a key are omitted so they fail as unknown.
func (c AuthConfig) SchemeKeys() map[string][]byte {
	keys := map[string][]byte{}
	if c.UserSignature != "" {
		keys["bearer"] = []byte(c.UserSignature)
	}
	if c.AdminSignature != "" {
		keys["admin"] = []byte(c.AdminSignature)
	}
	return keys
}
