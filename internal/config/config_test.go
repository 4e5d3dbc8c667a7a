package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overmap.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overmap.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./overmaplogs", viper.GetString("logsDir"))
	assert.Equal(t, "file", viper.GetString("storage.type"))
	assert.Equal(t, "./overmapdata", viper.GetString("storage.file.outputDir"))
	assert.Equal(t, false, viper.GetBool("storage.file.compressOutput"))
	assert.Equal(t, "./overmap.db", viper.GetString("storage.sqlitePath"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "overmap", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "overmap-metrics", viper.GetString("influx.org"))
	assert.Equal(t, false, viper.GetBool("monitor.enabled"))
	assert.Equal(t, 1, viper.GetInt("monitor.intervalSeconds"))
	assert.Equal(t, 10, viper.GetInt("monitor.flushEvery"))
	assert.Equal(t, "", viper.GetString("monitor.statusDir"))
	assert.Equal(t, "./overmap-influx-backup.gz", viper.GetString("influx.backupPath"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "overmap", viper.GetString("otel.serviceName"))
	assert.Equal(t, 60, viper.GetInt("otel.intervalSeconds"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "none", viper.GetString("geo.projection"))
	assert.Equal(t, 1000.0, viper.GetFloat64("geo.blocksPerDegree"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestStorage_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overmap.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := Storage()
	assert.Equal(t, "file", cfg.Type)
	assert.Equal(t, "./overmapdata", cfg.File.OutputDir)
	assert.Equal(t, false, cfg.File.CompressOutput)
	assert.Equal(t, "./overmap.db", cfg.SqlitePath)
}

func TestStorage_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "sqlite",
			"file": { "outputDir": "/tmp/out", "compressOutput": true },
			"sqlitePath": "/tmp/markers.db"
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overmap.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := Storage()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.File.OutputDir)
	assert.Equal(t, true, sc.File.CompressOutput)
	assert.Equal(t, "/tmp/markers.db", sc.SqlitePath)
}
