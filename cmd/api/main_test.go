package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-editor/backend/internal/config"
	"project-editor/backend/internal/database"
)

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv(config.KeyPort, "9000")
	t.Setenv(config.KeyDatabaseDriver, database.DriverSQLite)
	t.Setenv(config.KeySQLitePath, ":memory:")

	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(v, flags)
	require.NoError(t, flags.Parse([]string{"--port", "7001", "--strict-parents"}))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Port)
	assert.True(t, cfg.StrictParentCheck)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
}

func TestUnsetFlagsFallBackToEnvironment(t *testing.T) {
	t.Setenv(config.KeyPort, "9000")
	t.Setenv(config.KeyLogLevel, "debug")

	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(v, flags)
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.StrictParentCheck)
}
