package toss

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/tossfile/internal/settings"
)

// Rule is a routing rule with paths made absolute and defaults applied.
type Rule struct {
	Source          string `json:"source,omitempty"`
	Destination     string `json:"destination"`
	ReplaceIfExists bool   `json:"replace_if_exists"`
	Flat            bool   `json:"flat"`
}

// HasSource reports whether the rule applies to saved files.
func (r Rule) HasSource() bool {
	return r.Source != ""
}

// Applies reports whether path lies below the rule's source directory.
func (r Rule) Applies(path string) bool {
	if !r.HasSource() {
		return false
	}
	return hasPathPrefix(filepath.Clean(path), r.Source)
}

// Target computes where path is copied. name is the synthesized file name
// and is only used by flat rules.
func (r Rule) Target(path, name string) string {
	if r.Flat {
		return filepath.Join(r.Destination, filepath.Base(name))
	}
	rel := strings.TrimPrefix(filepath.Clean(path), r.Source)
	return filepath.Join(r.Destination, rel)
}

// PrepareRule resolves a configured rule against the project root.
// Flat defaults to true for source-less rules and false otherwise.
func PrepareRule(p settings.PathSpec, globalReplace bool, projectRoot string) Rule {
	r := Rule{
		Destination:     absolute(p.Destination, projectRoot),
		ReplaceIfExists: globalReplace,
	}
	if p.HasSource() {
		r.Source = absolute(p.Source, projectRoot)
	}
	if p.ReplaceIfExists != nil {
		r.ReplaceIfExists = *p.ReplaceIfExists
	}
	if p.Flat != nil {
		r.Flat = *p.Flat
	} else {
		r.Flat = !r.HasSource()
	}
	return r
}

// PrepareRules prepares every configured rule in configuration order.
func PrepareRules(eff *settings.Effective, projectRoot string) []Rule {
	rules := make([]Rule, 0, len(eff.Paths))
	for _, p := range eff.Paths {
		rules = append(rules, PrepareRule(p, eff.ReplaceIfExists, projectRoot))
	}
	return rules
}

func absolute(p, root string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if !filepath.IsAbs(p) && root != "" {
		p = filepath.Join(root, p)
	}
	return p
}

// hasPathPrefix reports whether path equals dir or lies below it.
// "/proj/src2/x" is not below "/proj/src".
func hasPathPrefix(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasPrefix(path, dir) {
		return false
	}
	return strings.HasSuffix(dir, string(filepath.Separator)) || path[len(dir)] == filepath.Separator
}
