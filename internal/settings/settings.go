// Package settings merges the global and per-project toss settings into one
// effective snapshot.
//
// Resolution is a pure merge over two already-loaded documents. Locating and
// reading the documents is the job of the CLI config layer, which calls
// Resolve afresh on every query so edits are observed immediately.
package settings

import (
	"fmt"
	"strings"
	"time"
)

// Recognized setting keys.
const (
	KeyMergeGlobalPaths              = "merge_global_paths"
	KeyMergeGlobalSourcePathExcludes = "merge_global_source_path_excludes"
	KeyMergeGlobalNameExcludes       = "merge_global_name_excludes"
	KeyMergeGlobalExtensionExcludes  = "merge_global_extension_excludes"
	KeyPaths                         = "paths"
	KeyDestinationPathExcludes       = "destination_path_excludes"
	KeyExtensionExcludes             = "extension_excludes"
	KeyNameExcludes                  = "name_excludes"
	KeyReplaceIfExists               = "replace_if_exists"
	KeySourcePathExcludes            = "source_path_excludes"
	KeyStatusTimeout                 = "status_timeout"
)

// MergePrefix marks the flag that makes a project list extend the global one.
const MergePrefix = "merge_global_"

// DefaultStatusTimeout applies when status_timeout is missing or not a
// positive whole number of seconds.
const DefaultStatusTimeout = 5 * time.Second

// Keys lists every recognized key in documentation order.
var Keys = []string{
	KeyMergeGlobalPaths,
	KeyMergeGlobalSourcePathExcludes,
	KeyMergeGlobalNameExcludes,
	KeyMergeGlobalExtensionExcludes,
	KeyPaths,
	KeyDestinationPathExcludes,
	KeyExtensionExcludes,
	KeyNameExcludes,
	KeyReplaceIfExists,
	KeySourcePathExcludes,
	KeyStatusTimeout,
}

// IsKey reports whether key is recognized.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Document is one raw settings document as produced by a koanf parser.
type Document map[string]any

// PathSpec is one configured routing rule as written in a document.
// Pointer fields distinguish "unset" from false.
type PathSpec struct {
	Source          string `koanf:"source" json:"source,omitempty" yaml:"source,omitempty"`
	Destination     string `koanf:"destination" json:"destination" yaml:"destination"`
	ReplaceIfExists *bool  `koanf:"replace_if_exists" json:"replace_if_exists,omitempty" yaml:"replace_if_exists,omitempty"`
	Flat            *bool  `koanf:"flat" json:"flat,omitempty" yaml:"flat,omitempty"`
}

// HasSource reports whether the rule copies saved files. An empty source
// counts as absent.
func (p PathSpec) HasSource() bool {
	return strings.TrimSpace(p.Source) != ""
}

// Effective is the merged, read-only view of both documents.
type Effective struct {
	MergeGlobalPaths              bool `koanf:"merge_global_paths" json:"merge_global_paths"`
	MergeGlobalSourcePathExcludes bool `koanf:"merge_global_source_path_excludes" json:"merge_global_source_path_excludes"`
	MergeGlobalNameExcludes       bool `koanf:"merge_global_name_excludes" json:"merge_global_name_excludes"`
	MergeGlobalExtensionExcludes  bool `koanf:"merge_global_extension_excludes" json:"merge_global_extension_excludes"`

	Paths                   []PathSpec `koanf:"paths" json:"paths"`
	DestinationPathExcludes []string   `koanf:"destination_path_excludes" json:"destination_path_excludes"`
	ExtensionExcludes       []string   `koanf:"extension_excludes" json:"extension_excludes"`
	NameExcludes            []string   `koanf:"name_excludes" json:"name_excludes"`
	SourcePathExcludes      []string   `koanf:"source_path_excludes" json:"source_path_excludes"`
	ReplaceIfExists         bool       `koanf:"replace_if_exists" json:"replace_if_exists"`

	// StatusTimeout is derived from status_timeout (seconds).
	StatusTimeout time.Duration `koanf:"-" json:"status_timeout"`

	// Ignored holds unrecognized project keys, in document order.
	Ignored []string `koanf:"-" json:"ignored,omitempty"`
}

// Validate checks the rule list.
func (e *Effective) Validate() error {
	for i, p := range e.Paths {
		if strings.TrimSpace(p.Destination) == "" {
			return fmt.Errorf("paths[%d]: destination is required", i)
		}
	}
	return nil
}

// DecodeError reports a setting whose value has the wrong shape.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid settings: %v", e.Err)
	}
	return fmt.Sprintf("invalid setting %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
