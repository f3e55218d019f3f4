// Package toss routes files to destination directories under declarative
// rules.
//
// A saved file is copied to every rule whose source directory contains it,
// either flat (under the synthesized artifact name) or preserving its path
// below the source. An unsaved buffer is classified, named, and saved into
// the destination of the first source-less rule. A SkipPolicy vetoes
// individual copies, and every decision is reported through a FileResult
// that callers fold into an Outcome.
//
// The package never talks to the terminal or editor directly; it sees the
// outside world through the Host and Buffer interfaces.
package toss
