package host

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/tossfile/internal/status"
	"github.com/leapstack-labs/tossfile/internal/toss"
)

// ErrNoBuffer is returned by Current when nothing was opened.
var ErrNoBuffer = errors.New("no current buffer")

// Terminal is the toss.Host of the command line.
type Terminal struct {
	root    string
	slot    *status.Slot
	current toss.Buffer
	open    []toss.Buffer
}

var _ toss.Host = (*Terminal)(nil)

// NewTerminal returns a host anchored at the project root.
func NewTerminal(root string, slot *status.Slot) *Terminal {
	if slot == nil {
		slot = status.New()
	}
	return &Terminal{root: root, slot: slot}
}

// WithCurrent sets the buffer acted on by "toss current file".
func (h *Terminal) WithCurrent(buf toss.Buffer) *Terminal {
	h.current = buf
	return h
}

// WithOpen sets the buffers acted on by "toss all open files".
func (h *Terminal) WithOpen(bufs []toss.Buffer) *Terminal {
	h.open = bufs
	return h
}

// Current implements toss.Host.
func (h *Terminal) Current() (toss.Buffer, error) {
	if h.current == nil {
		return nil, ErrNoBuffer
	}
	return h.current, nil
}

// OpenBuffers implements toss.Host.
func (h *Terminal) OpenBuffers() ([]toss.Buffer, error) {
	return h.open, nil
}

// ProjectRoot implements toss.Host.
func (h *Terminal) ProjectRoot() string { return h.root }

// SetStatus implements toss.Host.
func (h *Terminal) SetStatus(message string) { h.slot.Set(message) }

// ScheduleClear implements toss.Host.
func (h *Terminal) ScheduleClear(after time.Duration) { h.slot.ScheduleClear(after) }

// Status returns the slot backing the status bar.
func (h *Terminal) Status() *status.Slot { return h.slot }

// ExpandPaths turns file and directory arguments into saved buffers.
// Directories are walked recursively; hidden directories are skipped.
// Relative arguments are taken from the working directory.
func ExpandPaths(args []string) ([]toss.Buffer, error) {
	var bufs []toss.Buffer
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				bufs = append(bufs, OpenFile(path))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return bufs, nil
}
