package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type RotationConfig struct {
	WallpaperDir string        `yaml:"wallpaperDir" validate:"required"`
	Interval     time.Duration `yaml:"interval" validate:"required|min:1"`
	Extensions   []string      `yaml:"extensions"`
}

type SourcesConfig struct {
	Active      string `yaml:"active" validate:"required|in:spotlight,unsplash,wallhaven,pexels"`
	UnsplashKey string `yaml:"unsplashKey"`
	PexelsKey   string `yaml:"pexelsKey"`
}

type PersistenceConfig struct {
	StatePath string `yaml:"statePath" validate:"required"`
}

type LoggerConfig struct {
	Level          string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode           uint32 `yaml:"mode" validate:"required|uint"`
	Dir            string `yaml:"dir" validate:"required"`
	SilentLogMaxMB int    `yaml:"silentLogMaxMB"`
}

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
	UserAgent string        `yaml:"userAgent"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Rotation    RotationConfig    `yaml:"rotation"`
	Sources     SourcesConfig     `yaml:"sources"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
