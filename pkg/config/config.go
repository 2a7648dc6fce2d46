package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Platform identifies one tenant allowed to send through the gateway.
// All three fields must be non-empty for the platform to be usable.
type Platform struct {
	// SenderEmail is the From address used for this tenant's mail.
	SenderEmail string `yaml:"senderEmail" json:"senderEmail"`

	// SenderName is the display name attached to the From header.
	SenderName string `yaml:"senderName" json:"senderName"`

	// Mailer references a named transport binding from Config.Mailers.
	Mailer string `yaml:"mailer" json:"mailer"`
}

// Mailer is a named SMTP transport binding.
type Mailer struct {
	Name               string `yaml:"name"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
}

type Server struct {
	ListenAddress string `yaml:"listenAddress"`
	TLSCertFile   string `yaml:"tlsCertFile"`
	TLSKeyFile    string `yaml:"tlsKeyFile"`
}

// CORS describes the origin policy. With AllowedOrigins set, requests from
// unlisted origins are rejected. With only Origin set, that origin is always
// echoed. With neither, the gateway answers with a wildcard.
type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
	Origin         string   `yaml:"origin"`
}

type RateLimit struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`
	Burst   int     `yaml:"burst"`
}

// Audit configures the optional Kafka audit sink. Leaving Brokers empty
// keeps auditing on the structured log only.
type Audit struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Config struct {
	Server    Server    `yaml:"server"`
	CORS      CORS      `yaml:"cors"`
	Mailers   []Mailer  `yaml:"mailers"`
	RateLimit RateLimit `yaml:"rateLimit"`
	Audit     Audit     `yaml:"audit"`

	// Platforms is the structured form of the tenant registry. The
	// JSON-string form arrives through the PLATFORMS environment variable
	// and takes precedence when set.
	Platforms map[string]Platform `yaml:"platforms"`

	// PlatformsJSON / APIKeysJSON / SharedAPIKey are captured from the
	// environment and consumed lazily through the Registry.
	PlatformsJSON string `yaml:"-"`
	APIKeysJSON   string `yaml:"-"`
	SharedAPIKey  string `yaml:"-"`
}

// Load loads the gateway configuration. If configPath is empty, "./config.yaml"
// is used when present; an explicitly given path must exist. Secret-bearing
// registries are always overlaid from the environment: PLATFORMS, API_KEYS,
// API_KEY, CORS_ORIGINS, CORS_ORIGIN and LISTEN_ADDRESS.
func Load(configPath ...string) (Config, error) {
	var config Config

	path := "./config.yaml"
	explicit := false
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
		explicit = true
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &config); err != nil {
			return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// env-only operation, nothing to read
	default:
		return config, fmt.Errorf("trying to open gateway config file %s: %v", path, err)
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PLATFORMS"); v != "" {
		c.PlatformsJSON = v
	}
	if v := os.Getenv("API_KEYS"); v != "" {
		c.APIKeysJSON = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.SharedAPIKey = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.CORS.Origin = v
	}
	if v := os.Getenv("LISTEN_ADDRESS"); v != "" {
		c.Server.ListenAddress = v
	}
}

// Defaults fills in unset values with sensible defaults.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.RateLimit.Rate <= 0 {
		c.RateLimit.Rate = 20
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 50
	}
	if c.Audit.Topic == "" {
		c.Audit.Topic = "email-gateway-audit"
	}
}

// PlatformSource returns the raw value the Registry should parse: the
// JSON-string form when present, otherwise the structured table.
func (c *Config) PlatformSource() interface{} {
	if c.PlatformsJSON != "" {
		return c.PlatformsJSON
	}
	if c.Platforms != nil {
		return c.Platforms
	}
	return nil
}
