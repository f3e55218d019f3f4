package toss

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/tossfile/internal/settings"
)

// SkipReason says why a copy was vetoed.
type SkipReason int

// Skip reasons, in the order they are checked.
const (
	SkipNone SkipReason = iota
	SkipExisting
	SkipName
	SkipExtension
	SkipDestinationPath
	SkipSourcePath
)

func (r SkipReason) String() string {
	switch r {
	case SkipExisting:
		return "exists"
	case SkipName:
		return "name excluded"
	case SkipExtension:
		return "extension excluded"
	case SkipDestinationPath:
		return "destination excluded"
	case SkipSourcePath:
		return "source excluded"
	default:
		return "none"
	}
}

// MarshalText renders the reason in JSON output.
func (r SkipReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// SkipPolicy decides whether a copy is vetoed. All tests are exact matches
// or plain string prefixes; there is no glob support.
type SkipPolicy struct {
	NameExcludes            []string
	ExtensionExcludes       []string
	DestinationPathExcludes []string
	SourcePathExcludes      []string

	// Exists reports whether a regular file is present. Defaults to os.Stat.
	Exists func(path string) bool
}

// NewSkipPolicy builds a policy from effective settings.
func NewSkipPolicy(eff *settings.Effective) *SkipPolicy {
	return &SkipPolicy{
		NameExcludes:            eff.NameExcludes,
		ExtensionExcludes:       eff.ExtensionExcludes,
		DestinationPathExcludes: eff.DestinationPathExcludes,
		SourcePathExcludes:      eff.SourcePathExcludes,
	}
}

// Skip reports whether copying copyFrom to copyTo must not happen.
func (p *SkipPolicy) Skip(copyFrom, copyTo string, replace bool) bool {
	return p.Check(copyFrom, copyTo, replace) != SkipNone
}

// Check returns the first reason that vetoes the copy, or SkipNone.
func (p *SkipPolicy) Check(copyFrom, copyTo string, replace bool) SkipReason {
	switch {
	case !replace && p.exists(copyTo):
		return SkipExisting
	case contains(p.NameExcludes, filepath.Base(copyTo)):
		return SkipName
	case p.excludedExtension(copyTo):
		return SkipExtension
	case hasAnyPrefix(copyTo, p.DestinationPathExcludes):
		return SkipDestinationPath
	case hasAnyPrefix(copyFrom, p.SourcePathExcludes):
		return SkipSourcePath
	}
	return SkipNone
}

func (p *SkipPolicy) exists(path string) bool {
	if p.Exists != nil {
		return p.Exists(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (p *SkipPolicy) excludedExtension(path string) bool {
	ext := filepath.Ext(path)
	return ext != "" && contains(p.ExtensionExcludes, ext)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
