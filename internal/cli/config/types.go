// Package config loads the command-line configuration and locates the
// global and project settings documents.
//
// Two layers are involved. Config holds how the CLI itself runs (project
// root, output mode, verbosity) and is loaded once per invocation from
// defaults, TOSSFILE_ environment variables and flags. The settings
// documents hold the toss rules and are re-read by SettingsSource every
// time they are needed.
package config

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot  string `koanf:"project_dir"`
	GlobalConfig string `koanf:"global_config"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown

	// EnvPrefix prefixes every environment variable read by tossfile.
	EnvPrefix = "TOSSFILE_"

	// GlobalFileName is the global settings file inside the user config dir.
	GlobalFileName = "tossfile.yaml"
	appDirName     = "tossfile"
)

// ProjectFileNames are the project settings files, in lookup order.
var ProjectFileNames = []string{"tossfile.yaml", ".tossfile.yaml"}
