package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"version subcommand", []string{"doctrack", "version"}},
		{"-version flag", []string{"doctrack", "-version"}},
		{"-v flag", []string{"doctrack", "-v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, Main(tt.args))
		})
	}
}
