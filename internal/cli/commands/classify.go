package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tossfile/internal/cli/output"
	"github.com/leapstack-labs/tossfile/internal/host"
	"github.com/leapstack-labs/tossfile/pkg/classify"
)

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Show how SQL text would be named",
		Long: `Classify SQL text and print the category, schema, object and the file
name an unsaved buffer would be saved under.

Exits non-zero when the text has no recognizable action phrase or object.`,
		Example: `  tossfile classify sql/new_table.sql
  echo 'create table [dbo].[Orders] (id int)' | tossfile classify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) > 0 {
				source = args[0]
			}
			text, err := readSource(cmd.InOrStdin(), source)
			if err != nil {
				return err
			}
			if selection != "" {
				if text, err = host.SelectLines(text, selection); err != nil {
					return err
				}
			}
			return runClassify(cmd, source, text)
		},
	}

	cmd.Flags().StringVar(&selection, "selection", "", "Classify only this line range (N or START:END)")
	return cmd
}

func readSource(stdin io.Reader, source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return string(data), nil
}

func runClassify(cmd *cobra.Command, source, text string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	res, err := classify.NewRegexClassifier().Classify(text)
	out := output.ClassifyOutput{Source: source}
	if err != nil {
		var cerr *classify.Error
		if !errors.As(err, &cerr) {
			return err
		}
		out.Error = cerr.Reason
	} else {
		out.Category = string(res.Category)
		out.Schema = res.Schema
		out.Object = res.Object
		out.Action = res.Action
		out.Name = classify.FileName(res)
	}
	cmdCtx.Logger.Debug("classified", "source", source, "name", out.Name, "error", out.Error)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if jerr := r.JSON(out); jerr != nil {
			return jerr
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Classification: "+source))
		r.Println("")
		if err == nil {
			r.Println(output.FormatKeyValue("Action", out.Action))
			r.Println(output.FormatKeyValue("Category", out.Category))
			r.Println(output.FormatKeyValue("Schema", out.Schema))
			r.Println(output.FormatKeyValue("Object", out.Object))
			r.Println(output.FormatKeyValue("Name", "`"+out.Name+"`"))
		}
	default:
		styles := r.Styles()
		if err == nil {
			r.Printf("  %s: %s\n", styles.Bold.Render("Action"), out.Action)
			r.Printf("  %s: %s\n", styles.Bold.Render("Category"), out.Category)
			r.Printf("  %s: %s\n", styles.Bold.Render("Schema"), out.Schema)
			r.Printf("  %s: %s\n", styles.Bold.Render("Object"), out.Object)
			r.Println(styles.Path.Render(out.Name))
		}
	}
	return err
}
