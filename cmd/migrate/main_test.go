package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_RejectsUnknownCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"drop"}},
		{"force is not exposed", []string{"force", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, run(tt.args), errUsage)
		})
	}
}
