package state

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"

	"github.com/kingrea/gsd/internal/config"
	"github.com/kingrea/gsd/internal/logging"
	"github.com/kingrea/gsd/internal/markdown"
	"github.com/kingrea/gsd/internal/workflow"
)

// DateLayout is the date format used in planning documents.
const DateLayout = "2006-01-02"

// Store performs whole-document reads and writes of the planning state.
type Store struct {
	workflow *workflow.Workflow
	now      func() time.Time
	logger   *log.Logger
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for document dates.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// WithLogger routes store activity to logger.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore builds a store for a planning tree.
func NewStore(wf *workflow.Workflow, opts ...StoreOption) *Store {
	store := &Store{
		workflow: wf,
		now:      time.Now,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Workflow returns the planning tree the store operates on.
func (s *Store) Workflow() *workflow.Workflow {
	return s.workflow
}

// Today returns the store clock's date in DateLayout.
func (s *Store) Today() string {
	return s.now().Format(DateLayout)
}

// StateSnapshot is a parsed STATE.md.
type StateSnapshot struct {
	Raw      string
	Sections markdown.Sections
	Position Position
	// HasPosition is false when the Current Position section is missing.
	HasPosition bool
}

// ReadState loads and parses STATE.md.
func (s *Store) ReadState() (StateSnapshot, error) {
	raw, err := readDocument(s.workflow.StatePath())
	if err != nil {
		return StateSnapshot{}, fmt.Errorf("read state: %w", err)
	}
	pos, ok := ParsePosition(raw)
	return StateSnapshot{
		Raw:         raw,
		Sections:    markdown.SplitSections(raw, 2),
		Position:    pos,
		HasPosition: ok,
	}, nil
}

// RoadmapSnapshot is a parsed ROADMAP.md.
type RoadmapSnapshot struct {
	Raw      string
	Sections markdown.Sections
	Progress RoadmapProgress
}

// ReadRoadmap loads ROADMAP.md and parses its progress table.
func (s *Store) ReadRoadmap() (RoadmapSnapshot, error) {
	raw, err := readDocument(s.workflow.RoadmapPath())
	if err != nil {
		return RoadmapSnapshot{}, fmt.Errorf("read roadmap: %w", err)
	}
	return RoadmapSnapshot{
		Raw:      raw,
		Sections: markdown.SplitSections(raw, 2),
		Progress: ParseRoadmapProgress(raw),
	}, nil
}

// UpdateSection replaces one STATE.md section body.
func (s *Store) UpdateSection(name, body string) error {
	return s.rewrite(s.workflow.StatePath(), "update state section", func(doc string) (string, error) {
		return UpdateSection(doc, name, body)
	})
}

// UpdatePosition rewrites the STATE.md execution cursor.
func (s *Store) UpdatePosition(u PositionUpdate) error {
	return s.rewrite(s.workflow.StatePath(), "update state position", func(doc string) (string, error) {
		return UpdatePosition(doc, u)
	})
}

// UpdateRoadmapProgress rewrites one ROADMAP.md progress row.
func (s *Store) UpdateRoadmapProgress(phaseNum, completed, total int, status, completedDate string) error {
	return s.rewrite(s.workflow.RoadmapPath(), "update roadmap progress", func(doc string) (string, error) {
		return UpdateRoadmapProgress(doc, phaseNum, completed, total, status, completedDate)
	})
}

// UpdatePlanCheckbox toggles one ROADMAP.md plan checklist line.
func (s *Store) UpdatePlanCheckbox(phaseNum, planNum int, checked bool) error {
	return s.rewrite(s.workflow.RoadmapPath(), "update plan checkbox", func(doc string) (string, error) {
		return UpdatePlanCheckbox(doc, phaseNum, planNum, checked)
	})
}

// PhaseDetails reads the roadmap detail block for a phase.
func (s *Store) PhaseDetails(phaseNum int) (Phase, error) {
	raw, err := readDocument(s.workflow.RoadmapPath())
	if err != nil {
		return Phase{}, fmt.Errorf("read roadmap: %w", err)
	}
	return PhaseDetails(raw, phaseNum)
}

// rewrite runs one read-modify-write cycle. Unchanged documents are not
// written.
func (s *Store) rewrite(path, op string, mutate func(string) (string, error)) error {
	doc, err := readDocument(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	updated, err := mutate(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if updated == doc {
		s.logger.Debug("document unchanged", "op", op, "path", path)
		return nil
	}
	if err := atomic.WriteFile(path, strings.NewReader(updated)); err != nil {
		return fmt.Errorf("%s: write %s: %w", op, filepath.Base(path), err)
	}
	s.logger.Info(op, "path", path)
	return nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s does not exist: %w", path, err)
		}
		return "", err
	}
	return string(data), nil
}

// InitResult lists the documents InitProjectFiles wrote and left alone.
type InitResult struct {
	Created []string
	Skipped []string
}

// InitProjectFiles creates the planning tree and any missing top-level
// documents. Existing documents are never overwritten.
func (s *Store) InitProjectFiles(opts InitOptions) (InitResult, error) {
	if err := s.workflow.Initialize(); err != nil {
		return InitResult{}, fmt.Errorf("init project: %w", err)
	}
	if opts.Date == "" {
		opts.Date = s.Today()
	}
	configJSON, err := config.DefaultJSON()
	if err != nil {
		return InitResult{}, fmt.Errorf("init project: %w", err)
	}

	files := []struct {
		path    string
		content string
	}{
		{s.workflow.StatePath(), RenderState(opts)},
		{s.workflow.ConfigPath(), string(configJSON)},
		{s.workflow.ProjectPath(), RenderProject(opts)},
		{s.workflow.RequirementsPath(), RenderRequirements(opts)},
		{s.workflow.RoadmapPath(), RenderRoadmap(opts)},
	}
	var result InitResult
	for _, f := range files {
		name := filepath.Base(f.path)
		created, err := createExclusive(f.path, f.content)
		if err != nil {
			return result, fmt.Errorf("init project: write %s: %w", name, err)
		}
		if created {
			result.Created = append(result.Created, name)
			s.logger.Info("created planning document", "file", name)
			continue
		}
		result.Skipped = append(result.Skipped, name)
	}
	return result, nil
}

// writeContent is replaced in tests to simulate a failing disk.
var writeContent = func(w io.Writer, content string) error {
	_, err := io.WriteString(w, content)
	return err
}

// createExclusive writes a new file and reports false when path already
// exists. A failed write removes the partial file so a retry starts clean.
func createExclusive(path, content string) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	err = writeContent(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return false, err
	}
	return true, nil
}
