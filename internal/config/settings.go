package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/aibgm/aibgm/internal/logger"
	"github.com/spf13/viper"
)

// Settings are optional tunables read from settings.json in the config
// directory. Absent file or absent fields fall back to defaults.
type Settings struct {
	Log logger.Config `json:"log" mapstructure:"log"`
}

// LoadSettings reads settings.json when present. Library data lives in
// config.json and is loaded separately; this file only carries knobs.
func LoadSettings(dir string) (Settings, error) {
	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	var s Settings
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("config: read settings.json: %w", err)
	}
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: parse settings.json: %w", err)
	}
	return s, nil
}
