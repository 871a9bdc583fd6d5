package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10000000, c.MaxSteps)
	assert.Equal(t, 1024, c.MaxCallDepth)
	assert.Equal(t, 10, c.MaxProtoDepth)
	assert.Equal(t, 1000, c.HistorySize)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("P2SH_MAX_STEPS", "5")
	t.Setenv("P2SH_HISTORY_SIZE", "50")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, c.MaxSteps)
	assert.Equal(t, 50, c.HistorySize)
}
