package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetup_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	assert.Equal(t, zerolog.DebugLevel, Setup("test", "debug"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.Equal(t, zerolog.InfoLevel, Setup("development", "nonsense"))
	assert.Equal(t, zerolog.WarnLevel, Setup("production", "warn"))
}
