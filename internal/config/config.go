// internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Paths struct {
		DataCSV  string `mapstructure:"data_csv"`
		AccelLog string `mapstructure:"accel_log"`
		WebDir   string `mapstructure:"web_dir"`
	} `mapstructure:"paths"`
	Auth struct {
		APIKeys []string `mapstructure:"api_keys"`
	} `mapstructure:"auth"`
}

var AppConfig Config

// LoadConfig reads config.yaml from path, falling back to defaults when the
// file is missing. Environment variables override file values.
func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
		// Missing file is fine, defaults apply.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("paths.data_csv", "data/sample_data.csv")
	viper.SetDefault("paths.accel_log", "data/downward_acceleration_points.csv")
	viper.SetDefault("paths.web_dir", "web")
}
