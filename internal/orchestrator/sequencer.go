// Package orchestrator sequences the document updates that follow a finished
// plan.
package orchestrator

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/kingrea/gsd/internal/logging"
	"github.com/kingrea/gsd/internal/state"
	"github.com/kingrea/gsd/internal/workflow"
)

// Step names one stage of AfterPlan.
type Step string

const (
	StepCheckbox      Step = "checkbox update"
	StepProgress      Step = "progress update"
	StepRoadmapRead   Step = "roadmap read"
	StepStatePosition Step = "state position update"
)

// StepError reports the stage that stopped AfterPlan.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return string(e.Step) + " failed: " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Store is the subset of state.Store the sequencer drives.
type Store interface {
	UpdatePlanCheckbox(phaseNum, planNum int, checked bool) error
	UpdateRoadmapProgress(phaseNum, completed, total int, status, completedDate string) error
	ReadRoadmap() (state.RoadmapSnapshot, error)
	UpdatePosition(u state.PositionUpdate) error
}

// Sequencer applies the post-plan updates to ROADMAP.md and STATE.md.
type Sequencer struct {
	store  Store
	now    func() time.Time
	logger *log.Logger
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithClock overrides the clock used for completion dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Sequencer) {
		s.now = clock
	}
}

// WithLogger routes sequencer activity to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSequencer returns a sequencer writing through store.
func NewSequencer(store Store, opts ...Option) *Sequencer {
	s := &Sequencer{store: store, now: time.Now, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanCompletion describes the plan that just finished.
type PlanCompletion struct {
	PhaseNum  int
	PlanNum   int
	PhaseName string
	// TotalPlansInPhase and CompletedInPhase count this plan as done.
	TotalPlansInPhase int
	CompletedInPhase  int
	// TotalPhases defaults to the number of roadmap progress rows.
	TotalPhases int
}

// GlobalProgress is the roadmap-wide plan count after the update.
type GlobalProgress struct {
	Completed int
	Total     int
	Pct       int
}

// Result is the outcome of AfterPlan.
type Result struct {
	PhaseComplete bool
	Global        GlobalProgress
}

// AfterPlan checks off the plan, rewrites the phase's progress row, re-reads
// the roadmap for global totals and moves the STATE.md cursor, in that order.
// The first failing step aborts the sequence; earlier writes are kept.
func (s *Sequencer) AfterPlan(pc PlanCompletion) (Result, error) {
	today := s.now().Format(state.DateLayout)
	phaseComplete := pc.CompletedInPhase >= pc.TotalPlansInPhase
	logger := s.logger.With("plan", workflow.PlanID(pc.PhaseNum, pc.PlanNum))

	if err := s.store.UpdatePlanCheckbox(pc.PhaseNum, pc.PlanNum, true); err != nil {
		return Result{}, s.fail(logger, StepCheckbox, err)
	}

	rowStatus, rowDate := "In progress", "-"
	if phaseComplete {
		rowStatus, rowDate = "Complete", today
	}
	if err := s.store.UpdateRoadmapProgress(pc.PhaseNum, pc.CompletedInPhase, pc.TotalPlansInPhase, rowStatus, rowDate); err != nil {
		return Result{}, s.fail(logger, StepProgress, err)
	}

	roadmap, err := s.store.ReadRoadmap()
	if err != nil {
		return Result{}, s.fail(logger, StepRoadmapRead, err)
	}
	progress := roadmap.Progress
	global := GlobalProgress{
		Completed: progress.CompletedPlans,
		Total:     progress.TotalPlans,
		Pct:       progress.Percent(),
	}
	totalPhases := pc.TotalPhases
	if totalPhases == 0 {
		totalPhases = len(progress.Phases)
	}

	status := "In progress"
	if phaseComplete {
		status = "Phase complete"
	}
	err = s.store.UpdatePosition(state.PositionUpdate{
		PhaseNum:         pc.PhaseNum,
		TotalPhases:      totalPhases,
		PhaseName:        pc.PhaseName,
		PlanNum:          pc.CompletedInPhase,
		TotalPlans:       pc.TotalPlansInPhase,
		Status:           status,
		LastActivity:     today + " -- Completed " + workflow.PlanFileName(pc.PhaseNum, pc.PlanNum),
		CompletedPlans:   global.Completed,
		TotalPlansGlobal: global.Total,
	})
	if err != nil {
		return Result{}, s.fail(logger, StepStatePosition, err)
	}

	logger.Info("plan recorded", "phase_complete", phaseComplete, "progress", global.Pct)
	return Result{PhaseComplete: phaseComplete, Global: global}, nil
}

func (s *Sequencer) fail(logger *log.Logger, step Step, err error) error {
	logger.Error("post-plan update aborted", "step", step, "err", err)
	return &StepError{Step: step, Err: err}
}
