package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type FilesConfig struct {
	RootDir     string `yaml:"root_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
	FontPath    string `yaml:"font_path"`
}

type SMSConfig struct {
	Token  string `yaml:"token"`
	Sender string `yaml:"sender"`
	// Bypass: не ходить в шлюз, выдавать фиксированный код "1111"
	Bypass bool `yaml:"bypass"`
}

// Duration — time.Duration, понимающий в yaml строки вида "15m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type JWTConfig struct {
	Secret     string   `yaml:"secret"`
	AccessTTL  Duration `yaml:"access_ttl"`
	RefreshTTL Duration `yaml:"refresh_ttl"`
	// Соль для phone_confirm_token
	PhoneTokenSalt string `yaml:"phone_token_salt"`
}

type GeoIPConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RateLimitConfig struct {
	// формат ulule/limiter, например "30-M"
	Public string `yaml:"public"`
}

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FeedbackTo   string `yaml:"feedback_to"`
	} `yaml:"email"`
	Files     FilesConfig     `yaml:"files"`
	SMS       SMSConfig       `yaml:"sms"`
	JWT       JWTConfig       `yaml:"jwt"`
	GeoIP     GeoIPConfig     `yaml:"geoip"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Files.MaxUploadMB <= 0 {
		cfg.Files.MaxUploadMB = 10
	}
	if cfg.JWT.AccessTTL <= 0 {
		cfg.JWT.AccessTTL = Duration(15 * time.Minute)
	}
	if cfg.JWT.RefreshTTL <= 0 {
		cfg.JWT.RefreshTTL = Duration(30 * 24 * time.Hour)
	}
	if cfg.RateLimit.Public == "" {
		cfg.RateLimit.Public = "30-M"
	}
	return &cfg
}
