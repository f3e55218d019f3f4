package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tossfile/internal/cli/output"
	"github.com/leapstack-labs/tossfile/internal/host"
	"github.com/leapstack-labs/tossfile/internal/status"
	"github.com/leapstack-labs/tossfile/internal/toss"
)

// TossOptions holds options for the toss and toss-all commands.
type TossOptions struct {
	DryRun    bool   // Decide without writing
	Selection string // Line range classified instead of the whole text
	Details   bool   // Show a table of every decision
	Force     bool   // Let an unsaved buffer replace an existing file
}

// NewTossCommand creates the toss command.
func NewTossCommand() *cobra.Command {
	opts := &TossOptions{}
	cmd := &cobra.Command{
		Use:   "toss [file|-]",
		Short: "Toss the current file to its configured destinations",
		Long: `Copy a file to every destination whose source directory contains it.

With no argument, or "-", the SQL is read from standard input and treated
as an unsaved buffer: it is named after what it creates or alters
(<category>.<schema>.<object>.sql) and saved under the first destination
that has no source.

Rules come from the global settings file and the project tossfile.yaml,
read fresh on every run.`,
		Example: `  # Toss a saved file
  tossfile toss sql/dbo/orders.sql

  # Name and save SQL from standard input
  pbpaste | tossfile toss

  # Classify only lines 10 to 20 of the input
  tossfile toss --selection 10:20 < migration.sql

  # Show what would happen without writing
  tossfile toss --dry-run --details sql/dbo/orders.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToss(cmd, args, opts, false)
		},
	}

	addTossFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Selection, "selection", "", "Classify only this line range (N or START:END)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Replace an existing file when saving standard input, even if settings say otherwise")

	return cmd
}

// NewTossAllCommand creates the toss-all command.
func NewTossAllCommand() *cobra.Command {
	opts := &TossOptions{}
	cmd := &cobra.Command{
		Use:   "toss-all <files|dirs...>",
		Short: "Toss every given file",
		Long: `Toss each file independently. Directories are walked recursively;
hidden directories are skipped.

A failure on one file is reported and the remaining files are still
tossed. The command exits non-zero if any file failed.`,
		Example: `  # Toss everything under sql/
  tossfile toss-all sql/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToss(cmd, args, opts, true)
		},
	}

	addTossFlags(cmd, opts)
	return cmd
}

func addTossFlags(cmd *cobra.Command, opts *TossOptions) {
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Show decisions without writing")
	cmd.Flags().BoolVarP(&opts.Details, "details", "d", false, "Show every decision in a table")
}

func runToss(cmd *cobra.Command, args []string, opts *TossOptions, all bool) error {
	cmdCtx := NewCommandContext(cmd)

	eff, err := cmdCtx.Settings()
	if err != nil {
		return err
	}
	if err := eff.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	h := host.NewTerminal(cmdCtx.Cfg.ProjectRoot, status.New())
	if all {
		bufs, err := host.ExpandPaths(args)
		if err != nil {
			return err
		}
		h.WithOpen(bufs)
	} else {
		buf, err := currentBuffer(cmd.InOrStdin(), args, opts)
		if err != nil {
			return err
		}
		h.WithCurrent(buf)
	}

	router := cmdCtx.Router(opts.DryRun)
	router.ForceReplace = opts.Force
	report, tossErr := router.Invoke(h, eff, all)
	if report == nil {
		return tossErr
	}

	if err := renderTossReport(cmdCtx.Renderer, report, h.Status().Message(), opts); err != nil {
		return err
	}
	if tossErr != nil {
		return fmt.Errorf("%s: %w", report.Label, tossErr)
	}
	return nil
}

// currentBuffer opens the named file, or reads standard input into an
// unsaved buffer.
func currentBuffer(stdin io.Reader, args []string, opts *TossOptions) (toss.Buffer, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		sel, err := host.SelectLines(string(data), opts.Selection)
		if err != nil {
			return nil, err
		}
		return host.NewScratch(string(data)).Select(sel), nil
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory (use toss-all)", args[0])
	}

	buf := host.OpenFile(path)
	if opts.Selection != "" {
		text, err := buf.Text()
		if err != nil {
			return nil, err
		}
		sel, err := host.SelectLines(text, opts.Selection)
		if err != nil {
			return nil, err
		}
		buf.Select(sel)
	}
	return buf, nil
}

func renderTossReport(r *output.Renderer, report *toss.Report, statusMsg string, opts *TossOptions) error {
	if statusMsg == "" {
		statusMsg = report.Summary
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(tossOutput(report, opts.DryRun))
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, report.Label))
		r.Println("")
		for _, f := range report.Files {
			renderFileLines(r, f)
		}
		if opts.Details {
			r.Println("")
			renderDecisionTable(r.Writer(), report, true)
		}
		r.Println("")
		r.Println(statusMsg)
	default:
		styles := r.Styles()
		r.Header(1, report.Label)
		for _, f := range report.Files {
			renderFileLines(r, f)
		}
		if opts.Details {
			r.Println("")
			renderDecisionTable(r.Writer(), report, false)
		}
		r.Println("")
		r.Println(styles.Bold.Render(statusMsg))
	}

	if opts.DryRun {
		r.Muted("dry run: nothing was written")
	}
	return nil
}

func displayPath(f toss.FileResult) string {
	if f.Path == "" {
		return "<unsaved>"
	}
	return f.Path
}

func renderFileLines(r *output.Renderer, f toss.FileResult) {
	name := displayPath(f)
	if f.Abandoned {
		r.StatusLine(name, "failed", f.Reason)
		return
	}
	for _, loc := range f.Tossed {
		r.StatusLine(name, "success", "-> "+loc.Target)
	}
	for _, loc := range f.Skipped {
		r.StatusLine(name, "skipped", loc.Reason.String()+": "+loc.Target)
	}
}

var titleCase = cases.Title(language.English)

func decisionLabel(kind toss.Kind, reason toss.SkipReason) string {
	switch kind {
	case toss.KindTossed:
		return "Tossed"
	case toss.KindAbandoned:
		return "Abandoned"
	default:
		return "Skipped (" + titleCase.String(reason.String()) + ")"
	}
}

// renderDecisionTable writes one row per (file, rule) decision.
func renderDecisionTable(w io.Writer, report *toss.Report, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Rule", "Target", "Decision"})

	for _, f := range report.Files {
		name := displayPath(f)
		if f.Abandoned {
			t.AppendRow(table.Row{name, "", "", decisionLabel(toss.KindAbandoned, toss.SkipNone)})
			continue
		}
		for _, loc := range f.Tossed {
			t.AppendRow(table.Row{name, loc.Rule, loc.Target, decisionLabel(toss.KindTossed, toss.SkipNone)})
		}
		for _, loc := range f.Skipped {
			t.AppendRow(table.Row{name, loc.Rule, loc.Target, decisionLabel(toss.KindSkipped, loc.Reason)})
		}
	}

	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func tossOutput(report *toss.Report, dryRun bool) output.TossOutput {
	o := report.Outcome
	out := output.TossOutput{
		Label:   report.Label,
		Summary: report.Summary,
		DryRun:  dryRun,
		Counts: output.TossCounts{
			Tossed:           o.FilesTossed,
			TossedLocations:  o.LocationsTossed,
			Skipped:          o.FilesSkipped,
			SkippedLocations: o.LocationsSkipped,
			Abandoned:        o.FilesAbandoned,
		},
		Files: make([]output.TossedFile, 0, len(report.Files)),
	}
	for _, f := range report.Files {
		tf := output.TossedFile{Path: f.Path, Name: f.Name, Abandoned: f.Abandoned, Reason: f.Reason}
		for _, loc := range f.Tossed {
			tf.Tossed = append(tf.Tossed, output.FileLocation{Rule: loc.Rule, Target: loc.Target})
		}
		for _, loc := range f.Skipped {
			tf.Skipped = append(tf.Skipped, output.FileLocation{Rule: loc.Rule, Target: loc.Target, Reason: loc.Reason.String()})
		}
		out.Files = append(out.Files, tf)
	}
	return out
}
