package toss

import (
	"fmt"
	"strings"
)

// Kind is the classification of one (file, rule) decision.
type Kind int

// Outcome kinds.
const (
	KindTossed Kind = iota
	KindSkipped
	KindAbandoned
)

// Location is one (file, rule) decision.
type Location struct {
	Rule   int        `json:"rule"`
	Target string     `json:"target"`
	Reason SkipReason `json:"reason,omitempty"`
}

// FileResult is everything the router decided for one file.
type FileResult struct {
	Path      string     `json:"path,omitempty"`
	Name      string     `json:"name,omitempty"`
	Tossed    []Location `json:"tossed,omitempty"`
	Skipped   []Location `json:"skipped,omitempty"`
	Abandoned bool       `json:"abandoned,omitempty"`
	// Reason explains an abandoned file.
	Reason string `json:"reason,omitempty"`
}

// Outcome aggregates the decisions of one invocation.
// A file counts once per kind however many rules it matched; every matched
// rule counts as a location.
type Outcome struct {
	FilesTossed      int `json:"files_tossed"`
	LocationsTossed  int `json:"locations_tossed"`
	FilesSkipped     int `json:"files_skipped"`
	LocationsSkipped int `json:"locations_skipped"`
	FilesAbandoned   int `json:"files_abandoned"`
}

// Record counts one decision. firstForFile marks the first decision of
// this kind for the current file.
func (o *Outcome) Record(kind Kind, firstForFile bool) {
	switch kind {
	case KindTossed:
		o.LocationsTossed++
		if firstForFile {
			o.FilesTossed++
		}
	case KindSkipped:
		o.LocationsSkipped++
		if firstForFile {
			o.FilesSkipped++
		}
	case KindAbandoned:
		o.FilesAbandoned++
	}
}

// Add folds a file's decisions into the outcome.
func (o *Outcome) Add(r FileResult) {
	if r.Abandoned {
		o.Record(KindAbandoned, true)
		return
	}
	for i := range r.Tossed {
		o.Record(KindTossed, i == 0)
	}
	for i := range r.Skipped {
		o.Record(KindSkipped, i == 0)
	}
}

// Summary renders the one-line status message. The skip clause only
// appears when something was skipped or abandoned.
func (o Outcome) Summary(label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: tossed %d %s to %d %s",
		label,
		o.FilesTossed, plural(o.FilesTossed, "file", "files"),
		o.LocationsTossed, plural(o.LocationsTossed, "location", "locations"))
	if o.FilesSkipped > 0 || o.FilesAbandoned > 0 {
		fmt.Fprintf(&b, "; settings made toss skip %d %s at %d %s, abandoned: %d",
			o.FilesSkipped, plural(o.FilesSkipped, "file", "files"),
			o.LocationsSkipped, plural(o.LocationsSkipped, "location", "locations"),
			o.FilesAbandoned)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
