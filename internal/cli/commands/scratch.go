package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tossfile/internal/host"
	"github.com/leapstack-labs/tossfile/internal/status"
	"github.com/leapstack-labs/tossfile/pkg/classify"
)

const (
	scratchPrompt     = "tossfile> "
	scratchContPrompt = "     ...> "
)

// ScratchOptions holds options for the scratch command.
type ScratchOptions struct {
	DryRun bool
	Force  bool
}

// NewScratchCommand creates the scratch command.
func NewScratchCommand() *cobra.Command {
	opts := &ScratchOptions{}
	cmd := &cobra.Command{
		Use:   "scratch",
		Short: "Type SQL and save each statement under its synthesized name",
		Long: `Start an interactive prompt. Each statement, terminated by a semicolon,
becomes an unsaved buffer that is named after what it creates or alters and
saved under the first rule without a source.

Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScratchREPL(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Show the names without saving")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Replace existing files")

	return cmd
}

func runScratchREPL(cmd *cobra.Command, opts *ScratchOptions) error {
	cmdCtx := NewCommandContext(cmd)

	historyFile := ""
	if dir, err := os.UserCacheDir(); err == nil {
		historyFile = filepath.Join(dir, "tossfile", "scratch_history")
		_ = os.MkdirAll(filepath.Dir(historyFile), 0750)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          scratchPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newScratchCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tossfile scratch (project: %s)\n", cmdCtx.Cfg.ProjectRoot)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	slot := status.New()
	var statement strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			statement.Reset()
			rl.SetPrompt(scratchPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if statement.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := handleScratchCommand(cmd, trimmed); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		statement.WriteString(line)
		if !strings.HasSuffix(trimmed, ";") {
			statement.WriteString("\n")
			rl.SetPrompt(scratchContPrompt)
			continue
		}
		rl.SetPrompt(scratchPrompt)

		text := statement.String()
		statement.Reset()
		if err := tossScratch(cmdCtx, slot, text, opts); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	return nil
}

// tossScratch saves one statement as an unsaved buffer.
func tossScratch(cmdCtx *CommandContext, slot *status.Slot, text string, opts *ScratchOptions) error {
	eff, err := cmdCtx.Settings()
	if err != nil {
		return err
	}
	if err := eff.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	h := host.NewTerminal(cmdCtx.Cfg.ProjectRoot, slot).WithCurrent(host.NewScratch(text))

	router := cmdCtx.Router(opts.DryRun)
	router.ForceReplace = opts.Force
	report, err := router.Invoke(h, eff, false)
	if report != nil {
		for _, f := range report.Files {
			renderFileLines(cmdCtx.Renderer, f)
		}
		if len(report.Files) > 0 && report.Outcome.FilesTossed == 0 && report.Outcome.FilesSkipped == 0 && !report.Files[0].Abandoned {
			cmdCtx.Renderer.Muted("no rule without a source is configured")
		}
		cmdCtx.Renderer.Println(slot.Message())
	}
	return err
}

func handleScratchCommand(cmd *cobra.Command, line string) (quit bool) {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printScratchHelp(cmd.OutOrStdout())

	case ".rules":
		if err := listRules(cmd, &RulesOptions{}); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printScratchHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .rules          Show the effective toss rules
  .clear          Clear the screen
  .quit / .exit   Exit

Tips:
  - Statements must end with a semicolon (;)
  - Each statement is saved as <category>.<schema>.<object>.sql
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newScratchCompleter completes dot-commands and action phrases.
func newScratchCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".rules"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, a := range actionPhrases() {
		items = append(items, readline.PcItem(a))
	}
	return readline.NewPrefixCompleter(items...)
}

func actionPhrases() []string {
	actions := classify.Actions()
	phrases := make([]string, 0, len(actions))
	for _, a := range actions {
		phrases = append(phrases, strings.ToUpper(a.Phrase))
	}
	return phrases
}
