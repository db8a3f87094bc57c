package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		set  bool
		want time.Duration
	}{
		{name: "unset uses default", want: 5 * time.Second},
		{name: "go duration", raw: "90s", set: true, want: 90 * time.Second},
		{name: "minutes", raw: "15m", set: true, want: 15 * time.Minute},
		{name: "bare integer is seconds", raw: "30", set: true, want: 30 * time.Second},
		{name: "garbage falls back", raw: "soon", set: true, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("WZ_TEST_DURATION", tt.raw)
			}
			assert.Equal(t, tt.want, getEnvAsTimeDuration("WZ_TEST_DURATION", 5*time.Second))
		})
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("WZ_TEST_SLICE", " a@x.com, ,b@x.com ")
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, getEnvAsSlice("WZ_TEST_SLICE", nil))
	assert.Equal(t, []string{"d"}, getEnvAsSlice("WZ_TEST_SLICE_MISSING", []string{"d"}))
}

func TestGetEnvAsIntAndBool(t *testing.T) {
	t.Setenv("WZ_TEST_INT", "42")
	t.Setenv("WZ_TEST_BAD_INT", "forty")
	t.Setenv("WZ_TEST_BOOL", "false")

	assert.Equal(t, 42, getEnvAsInt("WZ_TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("WZ_TEST_BAD_INT", 1))
	assert.False(t, getEnvAsBool("WZ_TEST_BOOL", true))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "pgdriver", cfg.Database.Driver)
	assert.Equal(t, ":8082", cfg.Server.Port)
	assert.Len(t, cfg.Encryption.Key, 32)
}
