package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// InitConfig reads configPath (when present) and lets environment variables
// named <PREFIX>_<KEY> override any key, with dots replaced by underscores.
// Defaults must be registered by the caller through the returned viper.
func InitConfig(envPrefix, configPath string, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return v, nil
}
