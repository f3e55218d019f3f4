package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tossfile/internal/cli/output"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		args     []string
		wantName string
		wantErr  string
	}{
		{
			name:     "bracketed table",
			input:    "create table [sales].[Orders] (id int)",
			wantName: "new.sales.Orders.sql",
		},
		{
			name:     "procedure without schema",
			input:    "CREATE PROCEDURE do_things AS SELECT 1",
			wantName: "usp..do_things.sql",
		},
		{
			name:     "selection",
			input:    "select 1\ncreate view dbo.v as select 1",
			args:     []string{"--selection", "2"},
			wantName: "view.dbo.v.sql",
		},
		{
			name:    "no action phrase",
			input:   "select 1",
			wantErr: "no action phrase found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupProject(t, "", "json")

			stdout, _, err := execute(t, NewClassifyCommand(), tt.input, tt.args...)

			var got output.ClassifyOutput
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, got.Error)
				assert.Empty(t, got.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, "-", got.Source)
		})
	}
}

func TestClassify_File(t *testing.T) {
	cfg := setupProject(t, "", "markdown")
	file := filepath.Join(cfg.ProjectRoot, "x.sql")
	writeTestFile(t, file, "insert into dbo.lookup values (1)")

	stdout, _, err := execute(t, NewClassifyCommand(), "", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "- **Category:** ibd")
	assert.Contains(t, stdout, "`ibd.dbo.lookup.sql`")
}

func TestClassify_MissingFile(t *testing.T) {
	setupProject(t, "", "json")

	_, _, err := execute(t, NewClassifyCommand(), "", "/does/not/exist.sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
