package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shawn-b/GuerrillaMailTester/internal/report"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string
	Status   string // report.ResultPass or report.ResultFail
	Duration time.Duration
	Err      error
	// Note carries non-fatal detail, e.g. a delivery wait that ran out.
	Note string
}

// Passed reports whether the step succeeded.
func (s StepResult) Passed() bool {
	return s.Status == report.ResultPass
}

// Result is the outcome of one run.
type Result struct {
	ID        string
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Steps     []StepResult
	Err       error
}

func newResult(name string) Result {
	return Result{
		ID:        uuid.New().String(),
		Name:      name,
		StartedAt: time.Now(),
	}
}

// Passed reports whether every step of the run passed.
func (r Result) Passed() bool {
	return r.Err == nil
}

// FailedStep returns the name of the failing step, or "" if the run passed.
func (r Result) FailedStep() string {
	for _, s := range r.Steps {
		if !s.Passed() {
			return s.Name
		}
	}
	return ""
}

// Summary converts the result for the report package.
func (r Result) Summary() report.RunSummary {
	s := report.RunSummary{
		ID:         r.ID,
		Name:       r.Name,
		Passed:     r.Passed(),
		FailedStep: r.FailedStep(),
		StartedAt:  r.StartedAt,
		Duration:   r.Duration,
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	for _, step := range r.Steps {
		ss := report.StepSummary{
			Name:     step.Name,
			Result:   step.Status,
			Duration: step.Duration,
			Note:     step.Note,
		}
		if step.Err != nil {
			ss.Error = step.Err.Error()
		}
		s.Steps = append(s.Steps, ss)
	}
	return s
}
