package toss

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/tossfile/internal/settings"
	"github.com/leapstack-labs/tossfile/pkg/classify"
)

// Plan is the read-only input of one invocation.
type Plan struct {
	Rules []Rule
	Skip  *SkipPolicy
}

// NewPlan prepares the rules and skip policy of eff.
func NewPlan(eff *settings.Effective, projectRoot string) *Plan {
	return &Plan{
		Rules: PrepareRules(eff, projectRoot),
		Skip:  NewSkipPolicy(eff),
	}
}

// Sourceless returns the indexes of rules without a source, in order.
func (p *Plan) Sourceless() []int {
	var idx []int
	for i, r := range p.Rules {
		if !r.HasSource() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Router applies a Plan to buffers.
type Router struct {
	Classifier classify.Classifier
	Logger     *slog.Logger
	// DryRun computes decisions without touching the filesystem or buffers.
	DryRun bool
	// ForceReplace lets unsaved buffers replace existing files whatever
	// the rule's replace_if_exists says.
	ForceReplace bool
}

// NewRouter returns a Router using c. A nil logger discards.
func NewRouter(c classify.Classifier, logger *slog.Logger) *Router {
	if c == nil {
		c = classify.NewRegexClassifier()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{Classifier: c, Logger: logger}
}

// Toss routes one buffer. Saved buffers are copied under every applicable
// rule with a source; unsaved buffers are named and saved under the first
// source-less rule.
//
// A classification failure is not an error: the result is marked
// abandoned. A filesystem error stops the remaining rules for this buffer
// and is returned together with the decisions made so far.
func (r *Router) Toss(buf Buffer, plan *Plan) (FileResult, error) {
	if buf.Path() == "" {
		return r.tossUnsaved(buf, plan)
	}
	return r.tossSaved(buf, plan)
}

func (r *Router) tossSaved(buf Buffer, plan *Plan) (FileResult, error) {
	path := filepath.Clean(buf.Path())
	res := FileResult{Path: path, Name: filepath.Base(path)}

	var applicable []int
	needName := false
	for i, rule := range plan.Rules {
		if rule.Applies(path) {
			applicable = append(applicable, i)
			needName = needName || rule.Flat
		}
	}
	if len(applicable) == 0 {
		r.Logger.Debug("no rule applies", "path", path)
		return res, nil
	}

	if needName {
		result, err := r.classify(buf)
		if err != nil {
			return r.abandon(res, err)
		}
		res.Name = classify.FileName(result)
	}

	for _, i := range applicable {
		rule := plan.Rules[i]
		target := rule.Target(path, res.Name)

		if reason := plan.Skip.Check(path, target, rule.ReplaceIfExists); reason != SkipNone {
			r.Logger.Debug("skipped", "path", path, "target", target, "reason", reason.String())
			res.Skipped = append(res.Skipped, Location{Rule: i, Target: target, Reason: reason})
			continue
		}

		if !r.DryRun {
			if err := copyFile(path, target); err != nil {
				return res, fmt.Errorf("toss %s to %s: %w", path, target, err)
			}
		}
		r.Logger.Debug("tossed", "path", path, "target", target, "dry_run", r.DryRun)
		res.Tossed = append(res.Tossed, Location{Rule: i, Target: target})
	}
	return res, nil
}

func (r *Router) tossUnsaved(buf Buffer, plan *Plan) (FileResult, error) {
	var res FileResult

	sourceless := plan.Sourceless()
	if len(sourceless) == 0 {
		r.Logger.Debug("no source-less rule for unsaved buffer")
		return res, nil
	}
	for _, i := range sourceless[1:] {
		r.Logger.Warn("ignoring additional source-less rule", "rule", i, "destination", plan.Rules[i].Destination)
	}

	result, err := r.classify(buf)
	if err != nil {
		return r.abandon(res, err)
	}

	i := sourceless[0]
	rule := plan.Rules[i]
	res.Name = classify.FileName(result)
	target := filepath.Join(rule.Destination, res.Name)

	replace := rule.ReplaceIfExists || r.ForceReplace
	if reason := plan.Skip.Check("", target, replace); reason != SkipNone {
		r.Logger.Debug("skipped", "target", target, "reason", reason.String())
		res.Skipped = append(res.Skipped, Location{Rule: i, Target: target, Reason: reason})
		return res, nil
	}

	if !r.DryRun {
		if o, ok := buf.(Overwriter); ok {
			o.SetOverwrite(replace)
		}
		buf.SetWorkingDir(rule.Destination)
		buf.SetName(res.Name)
		buf.AssignSyntax(SQLSyntax)
		if err := buf.Save(); err != nil {
			return res, fmt.Errorf("save %s: %w", target, err)
		}
	}
	r.Logger.Debug("saved buffer", "target", target, "dry_run", r.DryRun)
	res.Path = target
	res.Tossed = append(res.Tossed, Location{Rule: i, Target: target})
	return res, nil
}

// classify reads the selection, or the whole text when nothing is selected.
func (r *Router) classify(buf Buffer) (classify.Result, error) {
	text := buf.Selection()
	if strings.TrimSpace(text) == "" {
		var err error
		if text, err = buf.Text(); err != nil {
			return classify.Result{}, fmt.Errorf("read buffer: %w", err)
		}
	}
	return r.Classifier.Classify(text)
}

func (r *Router) abandon(res FileResult, err error) (FileResult, error) {
	if !errors.Is(err, classify.ErrAmbiguousOrNoMatch) {
		return res, err
	}
	r.Logger.Info("abandoned", "path", res.Path, "reason", err.Error())
	res.Abandoned = true
	res.Reason = err.Error()
	return res, nil
}

// copyFile writes the bytes of src to dst, creating dst's directory.
// Only content is copied; a failure midway can leave a partial dst.
func copyFile(src, dst string) (err error) {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
