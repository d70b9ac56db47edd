package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pulse/internal/config"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-c", "sweep.yaml", "--entries", "5", "--threads=3", "--watch"})
	require.NoError(t, err)
	assert.Equal(t, "sweep.yaml", opts.configPath)
	assert.True(t, opts.watch)
	assert.False(t, opts.list)
	assert.Equal(t, "info", opts.logLevel)

	cfg := config.Default()
	opts.apply(cfg)
	assert.Equal(t, 5, cfg.Run.Entries)
	assert.Equal(t, 3, cfg.Run.Threads)

	opts, err = parseFlags([]string{"--config", "other.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", opts.configPath)
}

func TestParseFlagsKeepsConfigWithoutOverrides(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)

	cfg := config.Default()
	opts.apply(cfg)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseFlagsUnknown(t *testing.T) {
	_, err := parseFlags([]string{"--cfg", "x.yaml"})
	assert.Error(t, err)
}
