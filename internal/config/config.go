package config

import (
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Port               int           `yaml:"port"`
	Pg                 Pg            `yaml:"pg"`
	JwtTTL             time.Duration `yaml:"jwt_ttl"` // session token lifetime, default 7d
	SecureCookies      bool          `yaml:"secure_cookies"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	LogLevel           string        `yaml:"log_level"`
	LogJSON            bool          `yaml:"log_json"`
	FirebaseProjectId  string        `yaml:"firebase_project_id"`
	AdminOnlyFederated bool          `yaml:"admin_only_federated"` // restrict /auth/google to allow-listed admins
	TrustedProxy       bool          `yaml:"trusted_proxy"`        // trust X-Real-IP/X-Forwarded-For for client IPs
	SweepInterval      time.Duration `yaml:"sweep_interval"`       // login-attempt purge cadence
}

type Pg struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Dbname string `yaml:"dbname"`
}

type Private struct {
	JwtKey      string   `yaml:"jwt_key"`
	PgPassword  string   `yaml:"pg_password"`
	AdminEmails []string `yaml:"admin_emails"`
}

func (c *Config) JwtKey() string {
	return c.private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	if c.Public.JwtTTL == 0 {
		return 7 * 24 * time.Hour
	}
	return c.Public.JwtTTL
}

func (c *Config) PgPassword() string {
	return c.private.PgPassword
}

func (c *Config) AdminEmails() []string {
	return c.private.AdminEmails
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// environment overrides and panics if the signing secret is missing: the
// service must refuse to start without one.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	applyEnvOverrides(&private)

	if strings.TrimSpace(private.JwtKey) == "" {
		panic("jwt signing secret is required: set jwt_key in private.yaml or JWT_SECRET")
	}

	return &Config{public, private}
}

// NewForTesting builds a config without touching the filesystem.
func NewForTesting(public Public, private Private) *Config {
	return &Config{public, private}
}

func applyEnvOverrides(private *Private) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		private.JwtKey = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		private.PgPassword = v
	}
	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		private.AdminEmails = nil
		for _, email := range strings.Split(v, ",") {
			if email = strings.TrimSpace(email); email != "" {
				private.AdminEmails = append(private.AdminEmails, email)
			}
		}
	}
}
