package toss

import "time"

// SQLSyntax is assigned to buffers renamed from classified SQL.
const SQLSyntax = "sql"

// Buffer is one text buffer of the host: a saved file or an unsaved scratch.
type Buffer interface {
	// Path is the saved location, or "" for an unsaved buffer.
	Path() string
	// Text returns the full content.
	Text() (string, error)
	// Selection returns the selected text, or "".
	Selection() string

	SetName(name string)
	SetWorkingDir(dir string)
	AssignSyntax(syntax string)
	// Save persists the buffer under its working dir and name.
	Save() error
}

// Overwriter is implemented by buffers whose Save refuses to replace an
// existing file unless allowed.
type Overwriter interface {
	SetOverwrite(allow bool)
}

// Host exposes the editing environment.
type Host interface {
	// Current is the buffer a "toss current file" acts on.
	Current() (Buffer, error)
	// OpenBuffers lists the buffers a "toss all open files" acts on.
	OpenBuffers() ([]Buffer, error)
	// ProjectRoot anchors relative rule paths.
	ProjectRoot() string

	SetStatus(message string)
	// ScheduleClear clears the status after the given delay unless a newer
	// message has replaced it.
	ScheduleClear(after time.Duration)
}
