package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tossfile/internal/cli/output"
	clitest "github.com/leapstack-labs/tossfile/internal/cli/testutil"
)

const mirrorSettings = `
paths:
  - source: src
    destination: out
`

func TestToss_SavedFileIsMirrored(t *testing.T) {
	cfg := setupProject(t, mirrorSettings, "json")
	file := filepath.Join(cfg.ProjectRoot, "src", "dbo", "orders.sql")
	writeTestFile(t, file, "create table dbo.orders (id int)")

	stdout, _, err := execute(t, NewTossCommand(), "", file)
	require.NoError(t, err)

	var got output.TossOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "Toss File", got.Label)
	assert.Equal(t, "Toss File: tossed 1 file to 1 location", got.Summary)
	assert.Equal(t, 1, got.Counts.Tossed)

	data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, "out", "dbo", "orders.sql"))
	require.NoError(t, err)
	assert.Equal(t, "create table dbo.orders (id int)", string(data))
}

func TestToss_SecondRunSkipsExisting(t *testing.T) {
	cfg := setupProject(t, mirrorSettings, "json")
	file := filepath.Join(cfg.ProjectRoot, "src", "a.sql")
	writeTestFile(t, file, "select 1")

	_, _, err := execute(t, NewTossCommand(), "", file)
	require.NoError(t, err)

	stdout, _, err := execute(t, NewTossCommand(), "", file)
	require.NoError(t, err)

	var got output.TossOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 0, got.Counts.Tossed)
	assert.Equal(t, 1, got.Counts.Skipped)
	assert.Equal(t, "Toss File: tossed 0 files to 0 locations; settings made toss skip 1 file at 1 location, abandoned: 0", got.Summary)
	require.Len(t, got.Files, 1)
	require.Len(t, got.Files[0].Skipped, 1)
	assert.Equal(t, "exists", got.Files[0].Skipped[0].Reason)
}

func TestToss_StandardInputIsNamedAndSaved(t *testing.T) {
	cfg := setupProject(t, "paths:\n  - destination: scratch\n", "markdown")

	stdout, _, err := execute(t, NewTossCommand(), "CREATE TABLE [dbo].[Orders] (id int)")
	require.NoError(t, err)

	path := filepath.Join(cfg.ProjectRoot, "scratch", "new.dbo.Orders.sql")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE [dbo].[Orders] (id int)", string(data))

	assert.Contains(t, stdout, "# Toss File")
	assert.Contains(t, stdout, "Toss File: tossed 1 file to 1 location")
	clitest.AssertNoANSI(t, stdout)
	clitest.AssertValidMarkdown(t, stdout)
}

func TestToss_StandardInputRerun(t *testing.T) {
	tests := []struct {
		name        string
		settings    string
		args        []string
		wantContent string
		wantTossed  int
		wantSkipped int
	}{
		{
			name:        "existing file is skipped",
			settings:    "paths:\n  - destination: scratch\n",
			wantContent: "CREATE TABLE [dbo].[Orders] (v1 int)",
			wantSkipped: 1,
		},
		{
			name:        "rule replace_if_exists replaces",
			settings:    "paths:\n  - destination: scratch\n    replace_if_exists: true\n",
			wantContent: "CREATE TABLE [dbo].[Orders] (v2 int)",
			wantTossed:  1,
		},
		{
			name:        "force replaces",
			settings:    "paths:\n  - destination: scratch\n",
			args:        []string{"--force"},
			wantContent: "CREATE TABLE [dbo].[Orders] (v2 int)",
			wantTossed:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupProject(t, tt.settings, "json")

			_, _, err := execute(t, NewTossCommand(), "CREATE TABLE [dbo].[Orders] (v1 int)", tt.args...)
			require.NoError(t, err)

			stdout, _, err := execute(t, NewTossCommand(), "CREATE TABLE [dbo].[Orders] (v2 int)", tt.args...)
			require.NoError(t, err)

			var got output.TossOutput
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			assert.Equal(t, tt.wantTossed, got.Counts.Tossed)
			assert.Equal(t, tt.wantSkipped, got.Counts.Skipped)

			data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, "scratch", "new.dbo.Orders.sql"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, string(data))
		})
	}
}

func TestToss_UnclassifiableInputIsAbandoned(t *testing.T) {
	cfg := setupProject(t, "paths:\n  - destination: scratch\n", "markdown")

	stdout, _, err := execute(t, NewTossCommand(), "select 1", "-")
	require.NoError(t, err)

	assert.Contains(t, stdout, "abandoned: 1")
	_, statErr := os.Stat(filepath.Join(cfg.ProjectRoot, "scratch"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written for an abandoned buffer")
}

func TestToss_SelectionNamesFromSelectedLines(t *testing.T) {
	cfg := setupProject(t, "paths:\n  - destination: scratch\n", "json")
	input := "create view dbo.v as select 1\nalter table dbo.t add c int\n"

	_, _, err := execute(t, NewTossCommand(), input, "--selection", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, "scratch", "mod.dbo.t.sql"))
	require.NoError(t, err)
	assert.Equal(t, input, string(data), "the whole text is saved")
}

func TestToss_DryRunWritesNothing(t *testing.T) {
	cfg := setupProject(t, mirrorSettings, "markdown")
	file := filepath.Join(cfg.ProjectRoot, "src", "a.sql")
	writeTestFile(t, file, "select 1")

	stdout, _, err := execute(t, NewTossCommand(), "", "--dry-run", "--details", file)
	require.NoError(t, err)

	assert.Contains(t, stdout, "dry run")
	assert.Contains(t, stdout, "| File |")
	assert.Contains(t, stdout, "Tossed")
	_, statErr := os.Stat(filepath.Join(cfg.ProjectRoot, "out"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestToss_RejectsDirectory(t *testing.T) {
	cfg := setupProject(t, mirrorSettings, "json")

	_, _, err := execute(t, NewTossCommand(), "", cfg.ProjectRoot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toss-all")
}

func TestToss_InvalidSettings(t *testing.T) {
	cfg := setupProject(t, "paths:\n  - source: src\n", "json")
	file := filepath.Join(cfg.ProjectRoot, "src", "a.sql")
	writeTestFile(t, file, "select 1")

	_, _, err := execute(t, NewTossCommand(), "", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination is required")
}

func TestTossAll_WalksDirectories(t *testing.T) {
	cfg := setupProject(t, mirrorSettings, "json")
	writeTestFile(t, filepath.Join(cfg.ProjectRoot, "src", "a.sql"), "select 1")
	writeTestFile(t, filepath.Join(cfg.ProjectRoot, "src", "sub", "b.sql"), "select 2")
	writeTestFile(t, filepath.Join(cfg.ProjectRoot, "other", "c.sql"), "select 3")

	stdout, _, err := execute(t, NewTossAllCommand(), "", cfg.ProjectRoot+"/src", cfg.ProjectRoot+"/other")
	require.NoError(t, err)

	var got output.TossOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "Toss All Files: tossed 2 files to 2 locations", got.Summary)
	assert.Len(t, got.Files, 3)

	assert.FileExists(t, filepath.Join(cfg.ProjectRoot, "out", "a.sql"))
	assert.FileExists(t, filepath.Join(cfg.ProjectRoot, "out", "sub", "b.sql"))
}

func TestTossAll_RequiresArguments(t *testing.T) {
	setupProject(t, mirrorSettings, "json")

	_, _, err := execute(t, NewTossAllCommand(), "")
	assert.Error(t, err)
}
