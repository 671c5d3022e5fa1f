package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Keys shared with the cobra flags that override them.
const (
	KeyLibraryDir     = "FILTERLAB_LIBRARY_DIR"
	KeyDebounceMS     = "FILTERLAB_DEBOUNCE_MS"
	KeyPreviewSize    = "FILTERLAB_PREVIEW_SIZE"
	KeyJPEGQuality    = "FILTERLAB_JPEG_QUALITY"
	KeyLogLevel       = "FILTERLAB_LOG_LEVEL"
	KeyLogFile        = "FILTERLAB_LOG_FILE"
	KeyResetAfterSave = "FILTERLAB_RESET_AFTER_SAVE"
)

type Config struct {
	// Library
	LibraryDir     string `mapstructure:"FILTERLAB_LIBRARY_DIR" validate:"required"`
	JPEGQuality    int    `mapstructure:"FILTERLAB_JPEG_QUALITY" validate:"min=1,max=100"`
	ResetAfterSave bool   `mapstructure:"FILTERLAB_RESET_AFTER_SAVE"`

	// Editor
	DebounceMS  int `mapstructure:"FILTERLAB_DEBOUNCE_MS" validate:"min=1,max=1000"`
	PreviewSize int `mapstructure:"FILTERLAB_PREVIEW_SIZE" validate:"min=16,max=1024"`

	// Logging
	LogLevel string `mapstructure:"FILTERLAB_LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFile  string `mapstructure:"FILTERLAB_LOG_FILE"`
}

// Debounce is the minimum spacing between interactive renders.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// bind every mapstructure tag to its environment variable
func bindEnv(c Config) {
	typ := reflect.TypeOf(c)
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			_ = viper.BindEnv(tag)
		}
	}
}

func setDefaults() {
	viper.SetDefault(KeyLibraryDir, "filterlab-library")
	viper.SetDefault(KeyDebounceMS, 10)
	viper.SetDefault(KeyPreviewSize, 200)
	viper.SetDefault(KeyJPEGQuality, 92)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFile, "")
	viper.SetDefault(KeyResetAfterSave, true)
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()
	setDefaults()

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.DebugContext(ctx, "Loaded configuration", "config", cfg)
	return &cfg, nil
}
