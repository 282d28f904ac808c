package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FT_INT", "42")
	t.Setenv("FT_BAD_INT", "forty")
	t.Setenv("FT_UINT", "100")
	t.Setenv("FT_DURATION", "90s")
	t.Setenv("FT_FLOAT", "2.5")
	t.Setenv("FT_BOOL", "false")
	t.Setenv("FT_EMPTY", "")

	assert.Equal(t, 42, GetEnvAsInt("FT_INT", 1))
	assert.Equal(t, 1, GetEnvAsInt("FT_BAD_INT", 1))
	assert.Equal(t, 7, GetEnvAsInt("FT_MISSING", 7))
	assert.Equal(t, uint64(100), GetEnvAsUint64("FT_UINT", 1))
	assert.Equal(t, uint64(1), GetEnvAsUint64("FT_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("FT_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvAsDuration("FT_INT", time.Second))
	assert.Equal(t, 2.5, GetEnvAsFloat("FT_FLOAT", 1))
	assert.False(t, GetEnvAsBool("FT_BOOL", true))
	assert.True(t, GetEnvAsBool("FT_MISSING", true))
	assert.Equal(t, "", GetEnvAsString("FT_EMPTY", "default"))
	assert.Equal(t, "default", GetEnvAsString("FT_MISSING", "default"))
}
