package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "valid", config: Config{Directories: []string{"./..."}}},
		{name: "plugin and load", config: Config{Directories: []string{"."}, Plugin: true, Load: true, Timeout: time.Minute}},
		{name: "no directories", config: Config{}, wantErr: "directories"},
		{name: "empty directory", config: Config{Directories: []string{"a", ""}}, wantErr: "directories[1]"},
		{name: "negative timeout", config: Config{Directories: []string{"."}, Timeout: -time.Second}, wantErr: "timeout"},
		{name: "load without plugin", config: Config{Directories: []string{"."}, Load: true}, wantErr: "requires plugin builds"},
		{name: "verbose and quiet", config: Config{Directories: []string{"."}, Verbose: true, Quiet: true}, wantErr: "cannot be combined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigCompileEnabled(t *testing.T) {
	assert.False(t, Config{}.compileEnabled())
	assert.True(t, Config{Compile: true}.compileEnabled())
	assert.True(t, Config{Vet: true}.compileEnabled())
}
