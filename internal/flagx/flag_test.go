package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://api.local", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://api.local"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-a", "x"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-l", "debug"},
			allowed: []string{"-c", "-l"},
			want:    []string{"-c", "-l", "debug"},
		},
		{
			name:    "repeated flag kept in order",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/etc/eventhub.json"}
		assert.Equal(t, "/etc/eventhub.json", ConfigPath())
	})

	t.Run("last flag wins", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/one.json", "-config", "/two.json"}
		assert.Equal(t, "/two.json", ConfigPath())
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"bin", "-a", "x"}
		t.Setenv(ConfigPathEnv, "/from/env.json")
		assert.Equal(t, "/from/env.json", ConfigPath())
	})

	t.Run("nothing set", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigPathEnv, "")
		assert.Empty(t, ConfigPath())
	})
}
