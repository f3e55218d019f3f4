package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tossfile/internal/cli/config"
	clitest "github.com/leapstack-labs/tossfile/internal/cli/testutil"
	"github.com/leapstack-labs/tossfile/internal/testutil"
)

// setupProject creates a project root with the given tossfile.yaml and
// installs a config pointing at it. The global settings file does not exist.
func setupProject(t *testing.T, settingsYAML, outputMode string) *config.Config {
	t.Helper()
	root := t.TempDir()
	if settingsYAML != "" {
		writeTestFile(t, filepath.Join(root, "tossfile.yaml"), settingsYAML)
	}
	cfg := &config.Config{
		ProjectRoot:  root,
		GlobalConfig: filepath.Join(t.TempDir(), "missing.yaml"),
		OutputFormat: outputMode,
	}
	config.SetCurrentConfig(cfg)
	t.Cleanup(config.ResetConfig)
	return cfg
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// execute runs cmd with args and stdin, returning stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// newTestContext builds a CommandContext that renders markdown into a buffer.
func newTestContext(t *testing.T, cfg *config.Config) (*CommandContext, *clitest.TestRenderer) {
	t.Helper()
	tr := clitest.NewTestRendererMarkdown()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
		Source:   config.NewSettingsSource(cfg),
	}, tr
}
