// Package host implements the toss host surface for a terminal: files on
// disk are saved buffers, standard input and prompt entries are unsaved
// ones, and the status bar is a status.Slot.
package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoLocation is returned when an unsaved buffer is saved before it has
// a name and working directory.
var ErrNoLocation = errors.New("buffer has no name or working directory")

// FileBuffer is a saved file. Its text is read from disk on first use.
type FileBuffer struct {
	path      string
	selection string
	text      *string
}

// OpenFile returns a buffer for path. The file is not read yet.
func OpenFile(path string) *FileBuffer {
	return &FileBuffer{path: path}
}

// Select restricts classification to part of the text.
func (b *FileBuffer) Select(selection string) *FileBuffer {
	b.selection = selection
	return b
}

// Path returns the file path.
func (b *FileBuffer) Path() string { return b.path }

// Text reads and caches the file content.
func (b *FileBuffer) Text() (string, error) {
	if b.text != nil {
		return *b.text, nil
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		return "", err
	}
	s := string(data)
	b.text = &s
	return s, nil
}

// Selection returns the selected text.
func (b *FileBuffer) Selection() string { return b.selection }

// A saved file keeps its identity; renaming is only meaningful for scratch
// buffers.
func (b *FileBuffer) SetName(string)       {}
func (b *FileBuffer) SetWorkingDir(string) {}
func (b *FileBuffer) AssignSyntax(string)  {}

// Save is a no-op: the file is already on disk.
func (b *FileBuffer) Save() error { return nil }

// Scratch is an unsaved buffer held in memory.
type Scratch struct {
	text      string
	selection string

	name   string
	dir    string
	syntax string
	saved  string

	// Overwrite lets Save replace an existing file.
	Overwrite bool
}

// NewScratch returns an unsaved buffer holding text.
func NewScratch(text string) *Scratch {
	return &Scratch{text: text}
}

// Select restricts classification to part of the text.
func (s *Scratch) Select(selection string) *Scratch {
	s.selection = selection
	return s
}

// Path is empty until the buffer has been saved.
func (s *Scratch) Path() string { return s.saved }

// Text returns the buffer content.
func (s *Scratch) Text() (string, error) { return s.text, nil }

// Selection returns the selected text.
func (s *Scratch) Selection() string { return s.selection }

// SetName sets the file name used by Save.
func (s *Scratch) SetName(name string) { s.name = name }

// SetWorkingDir sets the directory used by Save.
func (s *Scratch) SetWorkingDir(dir string) { s.dir = dir }

// AssignSyntax records the syntax.
func (s *Scratch) AssignSyntax(syntax string) { s.syntax = syntax }

// SetOverwrite implements toss.Overwriter.
func (s *Scratch) SetOverwrite(allow bool) { s.Overwrite = allow }

// Syntax returns the assigned syntax.
func (s *Scratch) Syntax() string { return s.syntax }

// Save writes the text to dir/name, creating dir. An existing file is only
// replaced when Overwrite is set.
func (s *Scratch) Save() error {
	if s.name == "" || s.dir == "" {
		return ErrNoLocation
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return err
	}

	path := filepath.Join(s.dir, s.name)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !s.Overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists: %w", path, err)
		}
		return err
	}
	if _, err := f.WriteString(s.text); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.saved = path
	return nil
}
