package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   func() *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewTossCommand, use: "toss [file|-]", flags: []string{"dry-run", "details", "selection", "force"}},
		{cmd: NewTossAllCommand, use: "toss-all <files|dirs...>", flags: []string{"dry-run", "details"}},
		{cmd: NewClassifyCommand, use: "classify [file|-]", flags: []string{"selection"}},
		{cmd: NewRulesCommand, use: "rules", flags: []string{"check", "format"}},
		{cmd: NewWatchCommand, use: "watch [dirs...]", flags: []string{"dry-run", "debounce"}},
		{cmd: NewScratchCommand, use: "scratch", flags: []string{"dry-run", "force"}},
		{cmd: NewInitCommand, use: "init [directory]", flags: []string{"force", "global"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			cmd := tt.cmd()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut string
	}{
		{name: "release", version: "0.1.0", wantOut: "tossfile v0.1.0"},
		{name: "dev", version: "dev", wantOut: "tossfile vdev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			assert.NoError(t, cmd.Execute())
			assert.True(t, strings.Contains(buf.String(), tt.wantOut), "got: %s", buf.String())
		})
	}
}
