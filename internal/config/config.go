package config

import "github.com/spf13/viper"

// Config holds the runtime configuration, read from configs/app.env or the
// matching environment variables.
type Config struct {
	// APIBaseURL is the upstream listings/auth backend, e.g. http://192.168.0.54:5000.
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	// NominatimURL is the geocoding endpoint base.
	NominatimURL string `mapstructure:"NOMINATIM_URL"`
	// UserAgent identifies us to Nominatim, which rejects anonymous clients.
	UserAgent string `mapstructure:"HTTP_USER_AGENT"`
	// ServerAddress is the listen address of the gateway.
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	// SessionFile is where the device session record lives.
	SessionFile string `mapstructure:"SESSION_FILE"`
	// SessionDBSource, when set, switches the session store to Postgres.
	SessionDBSource string `mapstructure:"SESSION_DB_SOURCE"`
	// LiveFeedURL is the websocket endpoint for live updates. Empty disables it.
	LiveFeedURL string `mapstructure:"LIVE_FEED_URL"`
}

// LoadConfig reads configuration from the given directory, letting
// environment variables override file values.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("HTTP_USER_AGENT", "rentmap/1.0")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("SESSION_FILE", "session.json")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
