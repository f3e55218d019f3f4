package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tossfile/internal/status"
)

func TestTossScratch(t *testing.T) {
	cfg := setupProject(t, "paths:\n  - destination: scratch\n", "markdown")
	cmdCtx, tr := newTestContext(t, cfg)
	slot := status.New()

	err := tossScratch(cmdCtx, slot, "create function dbo.f() returns int;", &ScratchOptions{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.ProjectRoot, "scratch", "udf.dbo.f.sql"))
	assert.Contains(t, tr.Output(), "tossed 1 file to 1 location")

	err = tossScratch(cmdCtx, slot, "create function dbo.f() returns bigint;", &ScratchOptions{})
	require.NoError(t, err)
	assert.Contains(t, tr.Output(), "settings made toss skip 1 file at 1 location")
	assert.NotContains(t, tr.Output(), "no rule without a source")

	require.NoError(t, tossScratch(cmdCtx, slot, "create function dbo.f() returns bigint;", &ScratchOptions{Force: true}))
	data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, "scratch", "udf.dbo.f.sql"))
	require.NoError(t, err)
	assert.Equal(t, "create function dbo.f() returns bigint;", string(data))
}

func TestTossScratch_NoSourcelessRule(t *testing.T) {
	cfg := setupProject(t, mirrorSettings, "markdown")
	cmdCtx, tr := newTestContext(t, cfg)

	require.NoError(t, tossScratch(cmdCtx, status.New(), "create table t (x int);", &ScratchOptions{}))
	assert.Contains(t, tr.Output(), "no rule without a source")
}

func TestHandleScratchCommand(t *testing.T) {
	cmd := NewScratchCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	assert.True(t, handleScratchCommand(cmd, ".quit"))
	assert.True(t, handleScratchCommand(cmd, ".EXIT"))
	assert.False(t, handleScratchCommand(cmd, ".help"))
	assert.Contains(t, out.String(), ".rules")
	assert.False(t, handleScratchCommand(cmd, ".nope"))
	assert.Contains(t, out.String(), "Unknown command: .nope")
}

func TestActionPhrases(t *testing.T) {
	phrases := actionPhrases()
	assert.Contains(t, phrases, "CREATE TABLE")
	assert.Contains(t, phrases, "INSERT IGNORE INTO")
}
