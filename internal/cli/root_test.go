package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tossfile/internal/cli/config"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"toss", "toss-all", "classify", "rules", "watch", "scratch", "init", "version", "completion"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

func TestRootCommand_TossEndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "tossfile.yaml"), []byte("paths:\n  - destination: saved\n"), 0600))

	out, err := run(t, "create or replace view dbo.summary as select 1",
		"--project-dir", root,
		"--global-config", filepath.Join(root, "none.yaml"),
		"-o", "json",
		"toss",
	)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Toss File: tossed 1 file to 1 location", got["summary"])
	assert.FileExists(t, filepath.Join(root, "saved", "view.dbo.summary.sql"))
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	_, err := run(t, "", "--project-dir", t.TempDir(), "-o", "xml", "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRootCommand_Completion(t *testing.T) {
	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "tossfile")
}

func TestGetConfig_Fallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultOutput, cfg.OutputFormat)
	assert.NotNil(t, GetRenderer(context.Background()))
}
