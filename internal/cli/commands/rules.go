package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tossfile/internal/cli/config"
	"github.com/leapstack-labs/tossfile/internal/cli/output"
	"github.com/leapstack-labs/tossfile/internal/settings"
	"github.com/leapstack-labs/tossfile/internal/toss"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Check  bool   // Report problems and exit non-zero if any
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the effective toss rules",
		Long: `Show the rules that apply after merging the global settings file with the
project tossfile.yaml, with paths resolved against the project root.

Use --check to report problems: rules without a destination, more than one
rule without a source (only the first is used for unsaved buffers), source
directories that do not exist, and unrecognized project keys.`,
		Example: `  # Show the effective rules
  tossfile rules

  # Check the settings in CI
  tossfile rules --check -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report problems and fail if any are found")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	eff, err := cmdCtx.Settings()
	if err != nil {
		return err
	}

	rules := toss.PrepareRules(eff, cmdCtx.Cfg.ProjectRoot)
	out := rulesOutput(cmdCtx.Cfg.ProjectRoot, eff, rules)
	if opts.Check {
		out.Problems = checkRules(eff, rules)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		listRulesMarkdown(r, out, cmdCtx.Source)
	default:
		listRulesText(r, out, cmdCtx.Source)
	}

	if opts.Check && len(out.Problems) > 0 {
		return fmt.Errorf("%d %s found", len(out.Problems), pluralize(len(out.Problems), "problem", "problems"))
	}
	return nil
}

func rulesOutput(root string, eff *settings.Effective, rules []toss.Rule) output.RulesOutput {
	out := output.RulesOutput{
		ProjectRoot: root,
		Rules:       make([]output.RuleInfo, 0, len(rules)),
		Excludes: output.ExcludeInfo{
			Names:            eff.NameExcludes,
			Extensions:       eff.ExtensionExcludes,
			DestinationPaths: eff.DestinationPathExcludes,
			SourcePaths:      eff.SourcePathExcludes,
		},
		Ignored: eff.Ignored,
	}
	for i, rule := range rules {
		out.Rules = append(out.Rules, output.RuleInfo{
			Index:           i,
			Source:          rule.Source,
			Destination:     rule.Destination,
			Flat:            rule.Flat,
			ReplaceIfExists: rule.ReplaceIfExists,
		})
	}
	return out
}

// checkRules lists configuration problems in rule order.
func checkRules(eff *settings.Effective, rules []toss.Rule) []string {
	var problems []string
	for i, p := range eff.Paths {
		if strings.TrimSpace(p.Destination) == "" {
			problems = append(problems, fmt.Sprintf("rule %d has no destination", i))
		}
	}

	plan := &toss.Plan{Rules: rules}
	if idx := plan.Sourceless(); len(idx) > 1 {
		for _, i := range idx[1:] {
			problems = append(problems, fmt.Sprintf("rule %d has no source and is shadowed by rule %d", i, idx[0]))
		}
	}

	for i, rule := range rules {
		if !rule.HasSource() {
			continue
		}
		if info, err := os.Stat(rule.Source); err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("rule %d source %s is not a directory", i, rule.Source))
		}
	}

	for _, key := range eff.Ignored {
		problems = append(problems, fmt.Sprintf("unrecognized project setting %q", key))
	}
	return problems
}

func settingsFiles(src *config.SettingsSource) (string, string) {
	global := src.GlobalPath
	project := src.ProjectPath()
	if project == "" {
		project = "(none)"
	}
	if global == "" {
		global = "(none)"
	} else if _, err := os.Stat(global); err != nil {
		global += " (missing)"
	}
	return global, project
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, out output.RulesOutput, src *config.SettingsSource) {
	styles := r.Styles()
	global, project := settingsFiles(src)

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Toss Rules (%d)", len(out.Rules))))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Project"), out.ProjectRoot)
	r.Printf("  %s: %s\n", styles.Bold.Render("Global settings"), global)
	r.Printf("  %s: %s\n", styles.Bold.Render("Project settings"), project)
	r.Println("")

	if len(out.Rules) == 0 {
		r.Println(styles.Muted.Render("  No rules configured"))
	} else {
		renderRulesTable(r, out.Rules, false)
	}
	r.Println("")

	r.Println(styles.Header2.Render("Excludes"))
	r.Printf("  %s: %s\n", styles.Bold.Render("Names"), joinOrNone(out.Excludes.Names))
	r.Printf("  %s: %s\n", styles.Bold.Render("Extensions"), joinOrNone(out.Excludes.Extensions))
	r.Printf("  %s: %s\n", styles.Bold.Render("Destination paths"), joinOrNone(out.Excludes.DestinationPaths))
	r.Printf("  %s: %s\n", styles.Bold.Render("Source paths"), joinOrNone(out.Excludes.SourcePaths))

	if len(out.Ignored) > 0 {
		r.Println("")
		r.Println(styles.Warning.Render("Ignored keys: " + strings.Join(out.Ignored, ", ")))
	}

	if len(out.Problems) > 0 {
		r.Println("")
		r.Println(styles.Header2.Render("Problems"))
		for _, p := range out.Problems {
			r.Println(styles.Error.Render("  ✗ " + p))
		}
	}
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, out output.RulesOutput, src *config.SettingsSource) {
	global, project := settingsFiles(src)

	r.Println(output.FormatHeader(1, "Toss Rules"))
	r.Println("")
	r.Println(output.FormatKeyValue("Project", out.ProjectRoot))
	r.Println(output.FormatKeyValue("Global settings", global))
	r.Println(output.FormatKeyValue("Project settings", project))
	r.Println("")

	if len(out.Rules) > 0 {
		renderRulesTable(r, out.Rules, true)
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Excludes"))
	r.Println("")
	r.Println(output.FormatKeyValue("Names", joinOrNone(out.Excludes.Names)))
	r.Println(output.FormatKeyValue("Extensions", joinOrNone(out.Excludes.Extensions)))
	r.Println(output.FormatKeyValue("Destination paths", joinOrNone(out.Excludes.DestinationPaths)))
	r.Println(output.FormatKeyValue("Source paths", joinOrNone(out.Excludes.SourcePaths)))

	if len(out.Problems) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Problems"))
		r.Println("")
		for _, p := range out.Problems {
			r.Println("- " + p)
		}
	}
	r.Println("")
}

func renderRulesTable(r *output.Renderer, rules []output.RuleInfo, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Source", "Destination", "Flat", "Replace"})
	for _, rule := range rules {
		source := rule.Source
		if source == "" {
			source = "(unsaved)"
		}
		t.AppendRow(table.Row{rule.Index, source, rule.Destination, yesNo(rule.Flat), yesNo(rule.ReplaceIfExists)})
	}
	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

// Helper functions

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
