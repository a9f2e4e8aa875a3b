package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "10s" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

type AppCfg struct {
	Env          string   `yaml:"env"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
	JWT          struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttlMinutes"`
	} `yaml:"jwt"`
}

type MongoCfg struct {
	URI            string   `yaml:"uri"`
	Database       string   `yaml:"database"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
}

type RedisCfg struct {
	Addr           string   `yaml:"addr"`
	Password       string   `yaml:"password"`
	DB             int      `yaml:"db"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
}

type BrevoCfg struct {
	APIKey    string `yaml:"apiKey"`
	FromEmail string `yaml:"fromEmail"`
	FromName  string `yaml:"fromName"`
}

type OAuthProviderCfg struct {
	ClientID     string   `yaml:"clientID"`
	ClientSecret string   `yaml:"clientSecret"`
	RedirectURL  string   `yaml:"redirectURL"`
	AuthURL      string   `yaml:"authURL"`
	TokenURL     string   `yaml:"tokenURL"`
	UserInfoURL  string   `yaml:"userInfoURL"`
	Scopes       []string `yaml:"scopes"`
}

type SecurityCfg struct {
	OtpSecret              string `yaml:"otpSecret"`
	OtpDigits              int    `yaml:"otpDigits"`
	OtpPeriodSeconds       int    `yaml:"otpPeriodSeconds"`
	OtpWindow              int    `yaml:"otpWindow"`
	PendingLoginTTLMinutes int    `yaml:"pendingLoginTTLMinutes"`
	PasswordHashCost       int    `yaml:"passwordHashCost"`
	BlacklistRetentionDays int    `yaml:"blacklistRetentionDays"`
}

type CollectionsCfg struct {
	Drivers   string `yaml:"drivers"`
	Users     string `yaml:"users"`
	Blacklist string `yaml:"blacklist"`
}

type Config struct {
	App         AppCfg                      `yaml:"app"`
	Mongo       MongoCfg                    `yaml:"mongo"`
	Redis       RedisCfg                    `yaml:"redis"`
	Brevo       BrevoCfg                    `yaml:"brevo"`
	OAuth       map[string]OAuthProviderCfg `yaml:"oauth"`
	Security    SecurityCfg                 `yaml:"security"`
	Collections CollectionsCfg              `yaml:"collections"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("JWT_SECRET", func(v string) { cfg.App.JWT.Secret = v })
	override("JWT_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.TTLMinutes = n
		}
	})
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("BREVO_API_KEY", func(v string) { cfg.Brevo.APIKey = v })
	override("BREVO_FROM_EMAIL", func(v string) { cfg.Brevo.FromEmail = v })
	override("BREVO_FROM_NAME", func(v string) { cfg.Brevo.FromName = v })
	override("OTP_SECRET", func(v string) { cfg.Security.OtpSecret = v })
	override("OTP_WINDOW", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.OtpWindow = n
		}
	})
	override("PENDING_LOGIN_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.PendingLoginTTLMinutes = n
		}
	})
	override("PASSWORD_HASH_COST", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.PasswordHashCost = n
		}
	})
	override("BLACKLIST_RETENTION_DAYS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.BlacklistRetentionDays = n
		}
	})

	for name, p := range cfg.OAuth {
		prefix := "OAUTH_" + toEnvName(name)
		override(prefix+"_CLIENT_ID", func(v string) { p.ClientID = v })
		override(prefix+"_CLIENT_SECRET", func(v string) { p.ClientSecret = v })
		override(prefix+"_REDIRECT_URL", func(v string) { p.RedirectURL = v })
		cfg.OAuth[name] = p
	}

	cfg.applyDefaults()

	if cfg.App.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.Security.OtpSecret == "" {
		return nil, errors.New("OTP_SECRET is required")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.JWT.TTLMinutes == 0 {
		c.App.JWT.TTLMinutes = 60
	}
	if c.Security.OtpDigits == 0 {
		c.Security.OtpDigits = 6
	}
	if c.Security.OtpPeriodSeconds == 0 {
		c.Security.OtpPeriodSeconds = 30
	}
	if c.Security.OtpWindow == 0 {
		c.Security.OtpWindow = 2
	}
	if c.Security.PendingLoginTTLMinutes == 0 {
		c.Security.PendingLoginTTLMinutes = 5
	}
	if c.Security.PasswordHashCost == 0 {
		c.Security.PasswordHashCost = 10
	}
	if c.Security.BlacklistRetentionDays == 0 {
		c.Security.BlacklistRetentionDays = 7
	}
	if c.Mongo.ConnectTimeout == 0 {
		c.Mongo.ConnectTimeout = Duration(15 * time.Second)
	}
	if c.Redis.ConnectTimeout == 0 {
		c.Redis.ConnectTimeout = Duration(5 * time.Second)
	}
	if c.Collections.Drivers == "" {
		c.Collections.Drivers = "drivers"
	}
	if c.Collections.Users == "" {
		c.Collections.Users = "users"
	}
	if c.Collections.Blacklist == "" {
		c.Collections.Blacklist = "blacklist"
	}
}

func toEnvName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out = append(out, ch)
	}
	return string(out)
}
