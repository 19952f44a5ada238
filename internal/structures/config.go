package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type WorksConfig struct {
	Dir          string `yaml:"dir" validate:"required|unixPath"`
	SettingsPath string `yaml:"settingsPath" validate:"required|unixPath"`
}

type UploadConfig struct {
	MaxSize           int64    `yaml:"maxSize" validate:"required|min:1"`
	AllowedExtensions []string `yaml:"allowedExtensions" validate:"required"`
}

type RateLimitConfig struct {
	ViewCooldown     time.Duration `yaml:"viewCooldown" validate:"required|min:1"`
	DownloadCooldown time.Duration `yaml:"downloadCooldown" validate:"required|min:1"`
	LikeCooldown     time.Duration `yaml:"likeCooldown" validate:"required|min:1"`
	SweepInterval    time.Duration `yaml:"sweepInterval"`
}

type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Works     WorksConfig     `yaml:"works"`
	Upload    UploadConfig    `yaml:"upload"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Admin     AdminConfig     `yaml:"admin"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
