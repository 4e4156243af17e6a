package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port      int    `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogJSON   bool   `yaml:"log_json"`
	MediaRoot string `yaml:"media_root"`

	JwtTTL        time.Duration `yaml:"jwt_ttl"`
	SecureCookies bool          `yaml:"secure_cookies"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// Upload constraints
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`  // hard cap on a single media file
	MaxVideoSeconds float64       `yaml:"max_video_seconds"` // probed duration limit
	ImageExtensions []string      `yaml:"image_extensions"`
	VideoExtensions []string      `yaml:"video_extensions"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"` // bound on ffprobe so a malformed file can't stall the request

	// Thumbnail derivation
	ThumbnailMaxDim      int           `yaml:"thumbnail_max_dim"`
	ThumbnailJPEGQuality int           `yaml:"thumbnail_jpeg_quality"`
	DerivationQueueSize  int           `yaml:"derivation_queue_size"`
	DerivationTimeout    time.Duration `yaml:"derivation_timeout"`

	MaxCommentLength int `yaml:"max_comment_length"`

	// How often the suspended-user cache is refreshed from the database
	SuspensionRefreshInterval time.Duration `yaml:"suspension_refresh_interval"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
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

// MustLoad reads public.yaml and private.yaml from configFolder,
// panicking on any problem. Missing knobs fall back to defaults.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	p := &c.Public
	if p.Port == 0 {
		p.Port = 8080
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.MediaRoot == "" {
		p.MediaRoot = "media"
	}
	if p.JwtTTL == 0 {
		p.JwtTTL = 24 * time.Hour
	}
	if p.MaxUploadBytes == 0 {
		p.MaxUploadBytes = 50 << 20
	}
	if p.MaxVideoSeconds == 0 {
		p.MaxVideoSeconds = 60
	}
	if len(p.ImageExtensions) == 0 {
		p.ImageExtensions = []string{".jpg", ".jpeg", ".png"}
	}
	if len(p.VideoExtensions) == 0 {
		p.VideoExtensions = []string{".mp4", ".mov"}
	}
	if p.ProbeTimeout == 0 {
		p.ProbeTimeout = 10 * time.Second
	}
	if p.ThumbnailMaxDim == 0 {
		p.ThumbnailMaxDim = 640
	}
	if p.ThumbnailJPEGQuality == 0 {
		p.ThumbnailJPEGQuality = 85
	}
	if p.DerivationQueueSize == 0 {
		p.DerivationQueueSize = 128
	}
	if p.DerivationTimeout == 0 {
		p.DerivationTimeout = 30 * time.Second
	}
	if p.MaxCommentLength == 0 {
		p.MaxCommentLength = 500
	}
	if p.SuspensionRefreshInterval == 0 {
		p.SuspensionRefreshInterval = time.Minute
	}
}
