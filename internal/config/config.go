package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileConfig holds file storage backend settings
type FileConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and configures the marker/asset storage backend
type StorageConfig struct {
	Type       string     `json:"type" mapstructure:"type"`
	File       FileConfig `json:"file" mapstructure:"file"`
	SqlitePath string     `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./overmaplogs")

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.file.outputDir", "./overmapdata")
	viper.SetDefault("storage.file.compressOutput", false)
	viper.SetDefault("storage.sqlitePath", "./overmap.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "overmap")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "overmap-metrics")
	viper.SetDefault("influx.backupPath", "./overmap-influx-backup.gz")

	viper.SetDefault("monitor.enabled", false)
	viper.SetDefault("monitor.intervalSeconds", 1)
	viper.SetDefault("monitor.flushEvery", 10)
	viper.SetDefault("monitor.statusDir", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "overmap")
	viper.SetDefault("otel.intervalSeconds", 60)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("geo.projection", "none")
	viper.SetDefault("geo.blocksPerDegree", 1000.0)

	viper.SetConfigName("overmap.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Storage returns the storage backend configuration.
func Storage() StorageConfig {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return StorageConfig{Type: "file"}
	}
	return cfg
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}
