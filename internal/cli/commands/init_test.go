package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tossfile/internal/cli/config"
	"github.com/leapstack-labs/tossfile/internal/toss"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		args     []string
		wantErr  bool
	}{
		{name: "init empty directory"},
		{name: "existing file without force", existing: "paths: []\n", wantErr: true},
		{name: "existing file with force", existing: "paths: []\n", args: []string{"--force"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupProject(t, "", "markdown")
			path := filepath.Join(cfg.ProjectRoot, "tossfile.yaml")
			if tt.existing != "" {
				writeTestFile(t, path, tt.existing)
			}

			args := append([]string{cfg.ProjectRoot}, tt.args...)
			_, _, err := execute(t, NewInitCommand(), "", args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "already exists")
				data, _ := os.ReadFile(path)
				assert.Equal(t, tt.existing, string(data))
				return
			}
			require.NoError(t, err)
			assert.FileExists(t, path)
		})
	}
}

func TestInit_StarterDocumentResolves(t *testing.T) {
	cfg := setupProject(t, "", "markdown")

	stdout, _, err := execute(t, NewInitCommand(), "", cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Contains(t, stdout, "tossfile settings initialized!")

	eff, err := config.NewSettingsSource(cfg).Load(nil)
	require.NoError(t, err)
	require.NoError(t, eff.Validate())
	assert.Empty(t, eff.Ignored)

	plan := toss.NewPlan(eff, cfg.ProjectRoot)
	require.Len(t, plan.Rules, 2)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "sql"), plan.Rules[0].Source)
	assert.Equal(t, []int{1}, plan.Sourceless())
	assert.Equal(t, []string{".bak", ".tmp"}, eff.ExtensionExcludes)
}

func TestInit_Global(t *testing.T) {
	cfg := setupProject(t, "", "markdown")

	_, _, err := execute(t, NewInitCommand(), "", "--global")
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.GlobalConfig)
	require.NoError(t, err)
	assert.Contains(t, string(data), "status_timeout: 5")
	assert.NoFileExists(t, filepath.Join(cfg.ProjectRoot, "tossfile.yaml"))
}
