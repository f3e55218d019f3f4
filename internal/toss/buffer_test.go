package toss

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// memBuffer is an in-memory Buffer. Saving writes the text to dir/name.
type memBuffer struct {
	path      string
	text      string
	selection string

	name    string
	dir     string
	syntax  string
	saves   int
	saveErr error
}

func (b *memBuffer) Path() string               { return b.path }
func (b *memBuffer) Text() (string, error)      { return b.text, nil }
func (b *memBuffer) Selection() string          { return b.selection }
func (b *memBuffer) SetName(name string)        { b.name = name }
func (b *memBuffer) SetWorkingDir(dir string)   { b.dir = dir }
func (b *memBuffer) AssignSyntax(syntax string) { b.syntax = syntax }

func (b *memBuffer) Save() error {
	b.saves++
	if b.saveErr != nil {
		return b.saveErr
	}
	if b.dir == "" || b.name == "" {
		return errors.New("no location")
	}
	if err := os.MkdirAll(b.dir, 0750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.dir, b.name), []byte(b.text), 0600)
}

// overwriteBuffer records the overwrite permission given before Save.
type overwriteBuffer struct {
	memBuffer
	overwrite bool
}

func (b *overwriteBuffer) SetOverwrite(allow bool) { b.overwrite = allow }

// fakeHost records status traffic.
type fakeHost struct {
	current Buffer
	open    []Buffer
	root    string

	statuses []string
	clears   []time.Duration
}

func (h *fakeHost) Current() (Buffer, error) {
	if h.current == nil {
		return nil, errors.New("no current buffer")
	}
	return h.current, nil
}
func (h *fakeHost) OpenBuffers() ([]Buffer, error)   { return h.open, nil }
func (h *fakeHost) ProjectRoot() string              { return h.root }
func (h *fakeHost) SetStatus(message string)         { h.statuses = append(h.statuses, message) }
func (h *fakeHost) ScheduleClear(after time.Duration) { h.clears = append(h.clears, after) }
