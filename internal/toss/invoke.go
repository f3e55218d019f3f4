package toss

import (
	"errors"

	"github.com/leapstack-labs/tossfile/internal/settings"
)

// Command labels shown in the status summary.
const (
	LabelTossFile     = "Toss File"
	LabelTossAllFiles = "Toss All Files"
)

// Report is the result of one invocation.
type Report struct {
	Label   string       `json:"label"`
	Outcome Outcome      `json:"outcome"`
	Files   []FileResult `json:"files"`
	Summary string       `json:"summary"`
}

// Run tosses each buffer independently. A filesystem error on one buffer
// does not stop the others; all such errors are joined and returned.
func (r *Router) Run(bufs []Buffer, plan *Plan) (Outcome, []FileResult, error) {
	var (
		outcome Outcome
		files   = make([]FileResult, 0, len(bufs))
		errs    []error
	)
	for _, buf := range bufs {
		res, err := r.Toss(buf, plan)
		outcome.Add(res)
		files = append(files, res)
		if err != nil {
			r.Logger.Error("toss failed", "path", buf.Path(), "error", err)
			errs = append(errs, err)
		}
	}
	return outcome, files, errors.Join(errs...)
}

// Invoke runs one host command: the current buffer, or every open buffer
// when all is set. It always ends by publishing the summary to the host
// status and scheduling its clearing, even when some buffer failed.
func (r *Router) Invoke(host Host, eff *settings.Effective, all bool) (*Report, error) {
	label := LabelTossFile
	var bufs []Buffer
	if all {
		label = LabelTossAllFiles
		open, err := host.OpenBuffers()
		if err != nil {
			return nil, err
		}
		bufs = open
	} else {
		cur, err := host.Current()
		if err != nil {
			return nil, err
		}
		bufs = []Buffer{cur}
	}

	plan := NewPlan(eff, host.ProjectRoot())
	outcome, files, err := r.Run(bufs, plan)

	report := &Report{
		Label:   label,
		Outcome: outcome,
		Files:   files,
		Summary: outcome.Summary(label),
	}
	host.SetStatus(report.Summary)
	host.ScheduleClear(eff.StatusTimeout)
	return report, err
}
