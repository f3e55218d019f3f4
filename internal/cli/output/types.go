package output

// TossOutput is the JSON shape of toss and toss-all.
type TossOutput struct {
	Label   string       `json:"label"`
	Summary string       `json:"summary"`
	DryRun  bool         `json:"dry_run,omitempty"`
	Counts  TossCounts   `json:"counts"`
	Files   []TossedFile `json:"files"`
}

// TossCounts mirrors the outcome counters.
type TossCounts struct {
	Tossed           int `json:"tossed"`
	TossedLocations  int `json:"tossed_locations"`
	Skipped          int `json:"skipped"`
	SkippedLocations int `json:"skipped_locations"`
	Abandoned        int `json:"abandoned"`
}

// TossedFile is the result for one buffer.
type TossedFile struct {
	Path      string         `json:"path"`
	Name      string         `json:"name,omitempty"`
	Tossed    []FileLocation `json:"tossed,omitempty"`
	Skipped   []FileLocation `json:"skipped,omitempty"`
	Abandoned bool           `json:"abandoned,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// FileLocation is one destination of a file.
type FileLocation struct {
	Rule   int    `json:"rule"`
	Target string `json:"target"`
	Reason string `json:"reason,omitempty"`
}

// ClassifyOutput is the JSON shape of classify.
type ClassifyOutput struct {
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
	Schema   string `json:"schema"`
	Object   string `json:"object,omitempty"`
	Action   string `json:"action,omitempty"`
	Name     string `json:"name,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RulesOutput is the JSON shape of rules.
type RulesOutput struct {
	ProjectRoot string      `json:"project_root"`
	Rules       []RuleInfo  `json:"rules"`
	Excludes    ExcludeInfo `json:"excludes"`
	Ignored     []string    `json:"ignored,omitempty"`
	Problems    []string    `json:"problems,omitempty"`
}

// RuleInfo describes one prepared rule.
type RuleInfo struct {
	Index           int    `json:"index"`
	Source          string `json:"source,omitempty"`
	Destination     string `json:"destination"`
	Flat            bool   `json:"flat"`
	ReplaceIfExists bool   `json:"replace_if_exists"`
}

// ExcludeInfo lists the effective exclusion settings.
type ExcludeInfo struct {
	Names            []string `json:"names"`
	Extensions       []string `json:"extensions"`
	DestinationPaths []string `json:"destination_paths"`
	SourcePaths      []string `json:"source_paths"`
}
