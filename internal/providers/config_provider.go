package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"wallshift/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	// API keys may live in a .env next to the working directory; missing file is fine.
	_ = godotenv.Load()

	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("sources.unsplashKey", "WALLSHIFT_UNSPLASH_KEY")
	viper.BindEnv("sources.pexelsKey", "WALLSHIFT_PEXELS_KEY")
	viper.BindEnv("sources.active", "WALLSHIFT_SOURCE")
	viper.BindEnv("logger.level", "WALLSHIFT_LOG_LEVEL")
	viper.BindEnv("rotation.interval", "WALLSHIFT_ROTATION_INTERVAL")
	viper.BindEnv("cache.enabled", "WALLSHIFT_CACHE_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "WallShift"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyDefaults(conf *structures.Config) {
	if len(conf.Rotation.Extensions) == 0 {
		conf.Rotation.Extensions = []string{".jpg", ".jpeg", ".png", ".bmp"}
	}
	if conf.HTTP.Timeout == 0 {
		conf.HTTP.Timeout = 30 * time.Second
	}
	if conf.HTTP.UserAgent == "" {
		conf.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	}
	if conf.Logger.SilentLogMaxMB == 0 {
		conf.Logger.SilentLogMaxMB = 5
	}
}
