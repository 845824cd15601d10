package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ArtifactConfig struct {
	CodeLength   int    `yaml:"code_length"`
	TTL          string `yaml:"ttl"`
	ResendWindow string `yaml:"resend_window"`
	LinkBaseURL  string `yaml:"link_base_url"`
}

type SessionConfig struct {
	VoterTTL string `yaml:"voter_ttl"`
	AdminTTL string `yaml:"admin_ttl"`
	Backend  string `yaml:"backend"` // "memory" or "redis"
}

type VoteCacheConfig struct {
	TTL string `yaml:"ttl"`
}

type LinkConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type DeliveryConfig struct {
	Channel string `yaml:"channel"` // "email" or "sms"
}

type BrevoConfig struct {
	APIKey      string `yaml:"api_key"`
	SenderName  string `yaml:"sender_name"`
	SenderEmail string `yaml:"sender_email"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AdminKey  string          `yaml:"admin_key"`
	JuryCode  string          `yaml:"jury_code"`
	Artifact  ArtifactConfig  `yaml:"artifact"`
	Session   SessionConfig   `yaml:"session"`
	VoteCache VoteCacheConfig `yaml:"vote_cache"`
	Link      LinkConfig      `yaml:"link"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Brevo     BrevoConfig     `yaml:"brevo"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

type Config struct {
	Port    string
	GinMode string
	DSN     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AdminKey gates admin session creation; plain value or bcrypt hash
	AdminKey string
	// JuryCode marks a registrant as jury during issuance
	JuryCode string

	ArtifactCodeLength   int
	ArtifactTTL          time.Duration
	ArtifactResendWindow time.Duration
	LinkBaseURL          string

	VoterSessionTTL time.Duration
	AdminSessionTTL time.Duration
	SessionBackend  string

	VoteCacheTTL time.Duration

	LinkSecret string
	LinkIssuer string

	DeliveryChannel string
	BrevoAPIKey     string
	BrevoSenderName string
	BrevoSenderAddr string
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	// .env is optional; real env wins over file values below
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	artTTL, err := parseDuration(configFile.Artifact.TTL, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact TTL: %w", err)
	}
	resWnd, err := parseDuration(configFile.Artifact.ResendWindow, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact resend window: %w", err)
	}
	voterTTL, err := parseDuration(configFile.Session.VoterTTL, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid voter session TTL: %w", err)
	}
	adminTTL, err := parseDuration(configFile.Session.AdminTTL, 8*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid admin session TTL: %w", err)
	}
	cacheTTL, err := parseDuration(configFile.VoteCache.TTL, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid vote cache TTL: %w", err)
	}

	codeLength := configFile.Artifact.CodeLength
	if codeLength == 0 {
		codeLength = 6
	}
	backend := configFile.Session.Backend
	if backend == "" {
		backend = "redis"
	}
	channel := configFile.Delivery.Channel
	if channel == "" {
		channel = "email"
	}

	return &Config{
		Port:                 fmt.Sprintf("%d", configFile.App.Port),
		GinMode:              configFile.App.GinMode,
		DSN:                  env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:            env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:        env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:              configFile.Redis.DB,
		AdminKey:             env("ADMIN_KEY", configFile.AdminKey),
		JuryCode:             env("JURY_CODE", configFile.JuryCode),
		ArtifactCodeLength:   codeLength,
		ArtifactTTL:          artTTL,
		ArtifactResendWindow: resWnd,
		LinkBaseURL:          configFile.Artifact.LinkBaseURL,
		VoterSessionTTL:      voterTTL,
		AdminSessionTTL:      adminTTL,
		SessionBackend:       backend,
		VoteCacheTTL:         cacheTTL,
		LinkSecret:           env("LINK_SECRET", configFile.Link.Secret),
		LinkIssuer:           configFile.Link.Issuer,
		DeliveryChannel:      channel,
		BrevoAPIKey:          env("BREVO_API_KEY", configFile.Brevo.APIKey),
		BrevoSenderName:      configFile.Brevo.SenderName,
		BrevoSenderAddr:      configFile.Brevo.SenderEmail,
		TwilioSID:            env("TWILIO_SID", configFile.Twilio.AccountSID),
		TwilioToken:          env("TWILIO_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:           configFile.Twilio.FromNumber,
		CasbinModelPath:      configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
