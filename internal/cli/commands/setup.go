package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tossfile/internal/cli/config"
	"github.com/leapstack-labs/tossfile/internal/cli/output"
	"github.com/leapstack-labs/tossfile/internal/settings"
	"github.com/leapstack-labs/tossfile/internal/toss"
	"github.com/leapstack-labs/tossfile/pkg/classify"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Source   *config.SettingsSource
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Source:   config.NewSettingsSource(cfg),
	}
}

// Settings reads the settings documents and resolves them.
func (c *CommandContext) Settings() (*settings.Effective, error) {
	return c.Source.Load(c.Logger)
}

// Router returns a router using the regex classifier.
func (c *CommandContext) Router(dryRun bool) *toss.Router {
	r := toss.NewRouter(classify.NewRegexClassifier(), c.Logger)
	r.DryRun = dryRun
	return r
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	global := os.Getenv(config.EnvPrefix + "CONFIG")
	if global == "" {
		global = config.DefaultGlobalConfigPath()
	}
	return &config.Config{
		ProjectRoot:  getEnvOrDefault(config.EnvPrefix+"PROJECT_DIR", root),
		GlobalConfig: global,
		Verbose:      os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
