package classify

import (
	"errors"
	"fmt"
)

// ErrAmbiguousOrNoMatch is returned when no action phrase is found or the
// object identifier after it cannot be extracted.
var ErrAmbiguousOrNoMatch = errors.New("ambiguous or no match")

// Error describes why a text could not be classified.
// It matches ErrAmbiguousOrNoMatch under errors.Is.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("classification failed: %s", e.Reason)
}

// Is reports whether target is ErrAmbiguousOrNoMatch.
func (e *Error) Is(target error) bool {
	return target == ErrAmbiguousOrNoMatch
}

// Result is a successful classification.
type Result struct {
	Category Category `json:"category"`
	Schema   string   `json:"schema"`
	Object   string   `json:"object"`
	// Action is the phrase as it appeared in the text.
	Action string `json:"action,omitempty"`
}

// Classifier turns raw text into a Result.
type Classifier interface {
	Classify(text string) (Result, error)
}

// Name builds "<category>.<schema>.<object>.sql". Identifiers are used as
// given; making them filesystem-safe is the caller's concern.
func Name(category Category, schema, object string) string {
	return fmt.Sprintf("%s.%s.%s.sql", category, schema, object)
}

// FileName is Name applied to r.
func FileName(r Result) string {
	return Name(r.Category, r.Schema, r.Object)
}
