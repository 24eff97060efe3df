package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_MAX_NO_OF_WORDS, config.MaxNoOfWords)
	assert.Equal(t, DEFAULT_SCORE_INCREASE, config.ScoreIncrease)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, 30*time.Minute, config.SessionTTL)
	assert.Empty(t, config.RedisAddr)
}

func TestLoadConfig_ReadsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config")
	content := `{
		"host": "127.0.0.1",
		"port": 9000,
		"log_level": "debug",
		"max_no_of_words": 5,
		"score_increase": 10,
		"session_ttl": "90s"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", config.Host)
	assert.Equal(t, 9000, config.Port)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 5, config.MaxNoOfWords)
	assert.Equal(t, 10, config.ScoreIncrease)
	assert.Equal(t, 90*time.Second, config.SessionTTL)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_no_of_words": 0}`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("UNSCRAMBLE_SCORE_INCREASE", "7")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7, config.ScoreIncrease)
}
