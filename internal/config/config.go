package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string  `mapstructure:"SERVER_PORT"`
	Env           string  `mapstructure:"ENV"`
	CatalogPath   string  `mapstructure:"CATALOG_PATH"`
	ResultLimit   int     `mapstructure:"RESULT_LIMIT"`
	RadiusKm      float64 `mapstructure:"RADIUS_KM"`
	StartLat      float64 `mapstructure:"START_LAT"`
	StartLng      float64 `mapstructure:"START_LNG"`
	SessionSecret string  `mapstructure:"SESSION_SECRET"`
	UploadDir     string  `mapstructure:"UPLOAD_DIR"`
	OutputDir     string  `mapstructure:"OUTPUT_DIR"`
}

// Load reads configuration from the environment, after merging in an
// optional .env file. Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "9595")
	v.SetDefault("ENV", "development")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("RESULT_LIMIT", 5)
	v.SetDefault("RADIUS_KM", 5.0)
	v.SetDefault("START_LAT", 23.685)
	v.SetDefault("START_LNG", 90.3563)
	v.SetDefault("SESSION_SECRET", "change-me-nearby-places-session-secret")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("OUTPUT_DIR", "output")

	var cfg Config
	err := v.Unmarshal(&cfg)
	return cfg, err
}
