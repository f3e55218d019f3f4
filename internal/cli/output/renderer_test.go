package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTest(mode Mode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		tty  bool
		want Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{"bogus", true, ModeText},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		r, _, _ := newTest(tt.mode, tt.tty)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.tty)
	}
}

func TestNewRenderer_BufferIsNotATerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestMarkdownOutputHasNoANSI(t *testing.T) {
	r, out, errOut := newTest(ModeMarkdown, false)

	r.Header(1, "Toss File")
	r.StatusLine("a.sql", "success", "to /dst/a.sql")
	r.StatusLine("b.sql", "skipped", "existing")
	r.Success("done")
	r.Warning("careful")
	r.Muted("quiet")

	assert.False(t, ansi.MatchString(out.String()+errOut.String()))
	assert.Contains(t, out.String(), "# Toss File")
	assert.Contains(t, out.String(), "- `a.sql` success: to /dst/a.sql")
	assert.Contains(t, out.String(), "- `b.sql` skipped: existing")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, errOut.String(), "careful")
}

func TestTextOutputUsesMarks(t *testing.T) {
	r, out, _ := newTest(ModeText, false)

	r.StatusLine("a.sql", "success", "")
	r.StatusLine("b.sql", "failed", "boom")
	r.Success("ok")

	s := out.String()
	assert.Contains(t, s, "✓ a.sql")
	assert.Contains(t, s, "✗ b.sql boom")
	assert.Contains(t, s, "✓ ok")
}

func TestJSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)

	require.NoError(t, r.JSON(ClassifyOutput{Source: "-", Category: "new", Schema: "dbo", Object: "t", Name: "new.dbo.t.sql"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "new.dbo.t.sql", got["name"])
	assert.NotContains(t, got, "error")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Rules", FormatHeader(2, "Rules"))
	assert.Equal(t, "# Rules", FormatHeader(0, "Rules"))
	assert.Equal(t, "- **Schema:** dbo", FormatKeyValue("Schema", "dbo"))
	assert.Equal(t, "```sql\nselect 1\n```", FormatCodeBlock("sql", "select 1\n"))
}
