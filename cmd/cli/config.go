package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	HTTPAddress string

	MongoURI      string
	MongoDatabase string

	BlobEndpoint  string
	BlobRegion    string
	BlobAccessKey string
	BlobSecretKey string
	BlobBucket    string
}

// LoadConfig loads configuration from an optional yaml file and
// environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"HTTPAddress":   "HTTP_ADDRESS",
		"MongoURI":      "MONGO_URI",
		"MongoDatabase": "MONGO_DATABASE",
		"BlobEndpoint":  "BLOB_ENDPOINT",
		"BlobRegion":    "BLOB_REGION",
		"BlobAccessKey": "BLOB_ACCESS_KEY_ID",
		"BlobSecretKey": "BLOB_SECRET_ACCESS_KEY",
		"BlobBucket":    "BLOB_BUCKET",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("codenest_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.codenest")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":8080")
	v.SetDefault("MongoURI", "mongodb://localhost:27017")
	v.SetDefault("MongoDatabase", "codenest")
	v.SetDefault("BlobRegion", "us-east-1")
}

func validateConfig(config *Config) error {
	var missingVars []string

	if config.BlobEndpoint == "" {
		missingVars = append(missingVars, "BLOB_ENDPOINT")
	}

	if config.BlobAccessKey == "" {
		missingVars = append(missingVars, "BLOB_ACCESS_KEY_ID")
	}

	if config.BlobSecretKey == "" {
		missingVars = append(missingVars, "BLOB_SECRET_ACCESS_KEY")
	}

	if config.BlobBucket == "" {
		missingVars = append(missingVars, "BLOB_BUCKET")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return nil
}
