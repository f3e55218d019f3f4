package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/tossfile/internal/host"
	"github.com/leapstack-labs/tossfile/internal/status"
	"github.com/leapstack-labs/tossfile/internal/toss"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	DryRun   bool
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Toss files whenever they are saved",
		Long: `Watch directories and toss every file that is written or created, as if
"toss" had been run on it right after saving.

Without arguments the source directories of the current rules are watched.
Settings are read again for every batch of changes, so edits to
tossfile.yaml take effect without restarting. Files below a rule's
destination are ignored.`,
		Example: `  tossfile watch
  tossfile watch sql/ --debounce 250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Show decisions without writing")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "Wait this long after the last change before tossing")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts *WatchOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	dirs := args
	if len(dirs) == 0 {
		eff, err := cmdCtx.Settings()
		if err != nil {
			return err
		}
		for _, rule := range toss.PrepareRules(eff, cmdCtx.Cfg.ProjectRoot) {
			if rule.HasSource() {
				dirs = append(dirs, rule.Source)
			}
		}
	}
	if len(dirs) == 0 {
		return errors.New("nothing to watch: no rule has a source directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range dirs {
		if err := watchDirRecursive(watcher, dir); err != nil {
			cmdCtx.Logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	slot := status.New()
	updates := slot.Subscribe()

	r.Muted("Watching " + strings.Join(dirs, ", ") + " (Ctrl+C to stop)")

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer slot.Unsubscribe(updates)
		return watchEvents(egctx, cmdCtx, watcher, slot, opts)
	})

	// The status bar of a terminal is the printed summary line; a clear
	// only needs recording.
	eg.Go(func() error {
		for msg := range updates {
			if msg == "" {
				cmdCtx.Logger.Debug("status cleared")
			}
		}
		return nil
	})

	return eg.Wait()
}

// watchEvents collects written and created files and tosses them once the
// debounce delay has passed without further changes.
func watchEvents(ctx context.Context, cmdCtx *CommandContext, watcher *fsnotify.Watcher, slot *status.Slot, opts *WatchOptions) error {
	pending := make(map[string]struct{})
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					_ = watchDirRecursive(watcher, event.Name)
				}
				continue
			}
			pending[event.Name] = struct{}{}
			debounce = time.After(opts.Debounce)

		case <-debounce:
			debounce = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			tossChanged(cmdCtx, slot, paths, opts.DryRun)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}

// tossChanged tosses each changed file on its own, with settings read
// once for the batch.
func tossChanged(cmdCtx *CommandContext, slot *status.Slot, paths []string, dryRun bool) {
	eff, err := cmdCtx.Settings()
	if err != nil {
		cmdCtx.Logger.Error("failed to read settings", "error", err)
		return
	}
	if err := eff.Validate(); err != nil {
		cmdCtx.Logger.Error("invalid settings", "error", err)
		return
	}

	root := cmdCtx.Cfg.ProjectRoot
	rules := toss.PrepareRules(eff, root)
	router := cmdCtx.Router(dryRun)

	for _, path := range paths {
		if belowDestination(path, rules) {
			cmdCtx.Logger.Debug("ignoring change in destination", "path", path)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}

		h := host.NewTerminal(root, slot).WithCurrent(host.OpenFile(path))
		report, err := router.Invoke(h, eff, false)
		if err != nil {
			cmdCtx.Logger.Error("toss failed", "path", path, "error", err)
		}
		if report == nil {
			continue
		}
		for _, f := range report.Files {
			renderFileLines(cmdCtx.Renderer, f)
		}
		cmdCtx.Renderer.Println(slot.Message())
	}
}

func belowDestination(path string, rules []toss.Rule) bool {
	path = filepath.Clean(path)
	for _, rule := range rules {
		rel, err := filepath.Rel(rule.Destination, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
// Hidden directories are skipped.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
