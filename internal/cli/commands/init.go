package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/tossfile/internal/cli/config"
	"github.com/leapstack-labs/tossfile/internal/cli/output"
	"github.com/leapstack-labs/tossfile/internal/settings"
)

// starterDocument is the content written by init. Field order is the
// order keys appear in the file.
type starterDocument struct {
	Paths                   []starterPath `yaml:"paths"`
	ReplaceIfExists         bool          `yaml:"replace_if_exists"`
	NameExcludes            []string      `yaml:"name_excludes"`
	ExtensionExcludes       []string      `yaml:"extension_excludes"`
	DestinationPathExcludes []string      `yaml:"destination_path_excludes"`
	SourcePathExcludes      []string      `yaml:"source_path_excludes"`
	StatusTimeout           int           `yaml:"status_timeout,omitempty"`
}

type starterPath struct {
	Source      string `yaml:"source,omitempty"`
	Destination string `yaml:"destination"`
	Flat        *bool  `yaml:"flat,omitempty"`
}

func newStarterDocument(global bool) starterDocument {
	doc := starterDocument{
		Paths: []starterPath{
			{Source: "sql", Destination: "deploy/sql"},
			{Destination: "sql/scratch"},
		},
		NameExcludes:            []string{},
		ExtensionExcludes:       []string{".bak", ".tmp"},
		DestinationPathExcludes: []string{},
		SourcePathExcludes:      []string{},
	}
	if global {
		doc.StatusTimeout = int(settings.DefaultStatusTimeout.Seconds())
	}
	return doc
}

const starterHeader = `# tossfile settings
#
# paths: where files are copied.
#   source       files below this directory are copied on toss
#                (omit it for the rule that names and saves unsaved SQL)
#   destination  where copies go; relative paths are taken from the project root
#   flat         copy to destination/<category>.<schema>.<object>.sql
#                instead of mirroring the source tree
#
# In a project file, merge_global_<key>: true appends the project list to
# the global one instead of replacing it.
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var global bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter tossfile.yaml",
		Long: `Write a starter settings file with one rule for saved files and one for
unsaved SQL.

By default the project file tossfile.yaml is written to the given directory
(or the current one). With --global the global settings file is written
instead.`,
		Example: `  # Initialize the current project
  tossfile init

  # Create the global settings file
  tossfile init --global`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			path := filepath.Join(".", config.ProjectFileNames[0])
			if len(args) > 0 {
				path = filepath.Join(args[0], config.ProjectFileNames[0])
			}
			if global {
				path = cfg.GlobalConfig
			}
			return runInit(r, path, global, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing settings file")
	cmd.Flags().BoolVar(&global, "global", false, "Write the global settings file")

	return cmd
}

func runInit(r *output.Renderer, path string, global, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", path)
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newStarterDocument(global)); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.StatusLine(path, "success", "")
	r.Println("")
	r.Success("tossfile settings initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit the paths in " + filepath.Base(path))
	r.Println("  2. Run 'tossfile rules --check' to verify them")
	r.Println("  3. Run 'tossfile toss <file>' or 'tossfile watch'")

	return nil
}
