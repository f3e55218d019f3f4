package config

import (
	"fmt"
	"slices"
)

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of auto, text, markdown, json)", c.OutputFormat)
	}
	if c.ProjectRoot == "" {
		return fmt.Errorf("project root is required")
	}
	return nil
}
