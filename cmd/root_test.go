package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(v *viper.Viper) *cobra.Command {
	c := &cobra.Command{Use: "mm1calc"}
	c.Flags().Float64P("arrival-rate", "l", 3, "")
	v.BindPFlag("arrival_rate", c.Flags().Lookup("arrival-rate"))
	return c
}

func envViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MM1CALC")
	v.AutomaticEnv()
	return v
}

func TestWantsHeadlessDefaultOpensTUI(t *testing.T) {
	v := envViper()
	c := newTestCommand(v)

	assert.False(t, wantsHeadless(c, v))
}

func TestWantsHeadlessFromFlag(t *testing.T) {
	v := envViper()
	c := newTestCommand(v)
	require.NoError(t, c.Flags().Set("arrival-rate", "5"))

	assert.True(t, wantsHeadless(c, v))
}

func TestWantsHeadlessFromEnv(t *testing.T) {
	t.Setenv("MM1CALC_ARRIVAL_RATE", "5")
	v := envViper()
	c := newTestCommand(v)

	assert.True(t, wantsHeadless(c, v))
	assert.Equal(t, 5.0, v.GetFloat64("arrival_rate"))
}

func TestWantsHeadlessFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mm1calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arrival_rate: 5\nservice_time: 10\n"), 0o644))

	v := envViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	c := newTestCommand(v)

	assert.True(t, wantsHeadless(c, v))
	assert.Equal(t, 5.0, v.GetFloat64("arrival_rate"))
}

func TestWantsHeadlessIgnoresOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mm1calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service_time: 10\n"), 0o644))

	v := envViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	c := newTestCommand(v)

	assert.False(t, wantsHeadless(c, v))
}
