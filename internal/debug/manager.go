package debug

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"

	"github.com/kingrea/gsd/internal/logging"
	"github.com/kingrea/gsd/internal/workflow"
)

var (
	// ErrSessionExists indicates Create would overwrite an existing file.
	ErrSessionExists = errors.New("debug session already exists")
	// ErrSessionNotFound indicates no file exists for a slug.
	ErrSessionNotFound = errors.New("debug session not found")
	// ErrInvalidSlug indicates a slug with no usable characters.
	ErrInvalidSlug = errors.New("invalid debug session slug")
)

const dateLayout = "2006-01-02"

// Manager reads and writes DEBUG-{slug}.md files.
type Manager struct {
	workflow *workflow.Workflow
	now      func() time.Time
	logger   *log.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for created/updated dates.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.now = clock
	}
}

// WithLogger routes manager activity to logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a manager for the planning tree.
func NewManager(wf *workflow.Workflow, opts ...Option) *Manager {
	m := &Manager{workflow: wf, now: time.Now, logger: logging.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) today() string {
	return m.now().Format(dateLayout)
}

// Create writes a new gathering session. The slug is normalized with
// workflow.Slugify. Existing files are never overwritten.
func (m *Manager) Create(slug, trigger string) (Session, error) {
	slug = workflow.Slugify(slug)
	if slug == "" {
		return Session{}, fmt.Errorf("debug: create: %w", ErrInvalidSlug)
	}
	if err := os.MkdirAll(m.workflow.DebugDir(), 0o755); err != nil {
		return Session{}, fmt.Errorf("debug: create %s: %w", slug, err)
	}
	path := m.workflow.DebugSessionPath(slug)
	content := Content(NewSession{Slug: slug, Trigger: trigger, Created: m.today()})

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Session{}, fmt.Errorf("debug: create: %w: %s", ErrSessionExists, path)
		}
		return Session{}, fmt.Errorf("debug: create %s: %w", slug, err)
	}
	err = writeContent(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial file would make the slug unusable.
		os.Remove(path)
		return Session{}, fmt.Errorf("debug: create %s: %w", slug, err)
	}
	m.logger.Info("debug session created", "slug", slug)
	return m.parseAt(path, content)
}

// writeContent is replaced in tests to simulate a failing disk.
var writeContent = func(w io.Writer, content string) error {
	_, err := io.WriteString(w, content)
	return err
}

// Load reads the session for slug.
func (m *Manager) Load(slug string) (Session, error) {
	path := m.workflow.DebugSessionPath(slug)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, fmt.Errorf("debug: %w: %s", ErrSessionNotFound, slug)
		}
		return Session{}, fmt.Errorf("debug: load %s: %w", slug, err)
	}
	return m.parseAt(path, string(data))
}

// Update applies u to the session file for slug and returns the new state.
func (m *Manager) Update(slug string, u Update) (Session, error) {
	current, err := m.Load(slug)
	if err != nil {
		return Session{}, err
	}
	data, err := os.ReadFile(current.Path)
	if err != nil {
		return Session{}, fmt.Errorf("debug: update %s: %w", slug, err)
	}
	updated, err := Apply(string(data), u, m.today())
	if err != nil {
		return Session{}, err
	}
	if err := atomic.WriteFile(current.Path, strings.NewReader(updated)); err != nil {
		return Session{}, fmt.Errorf("debug: update %s: %w", slug, err)
	}
	m.logger.Info("debug session updated", "slug", slug, "status", u.Status)
	return m.parseAt(current.Path, updated)
}

// Active lists sessions that are not resolved, sorted by file name. A missing
// debug directory yields no sessions. Files without frontmatter are skipped.
func (m *Manager) Active() ([]Session, error) {
	entries, err := os.ReadDir(m.workflow.DebugDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("debug: list sessions: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, workflow.DebugPrefix) && strings.HasSuffix(name, ".md") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var sessions []Session
	for _, name := range names {
		slug := strings.TrimSuffix(strings.TrimPrefix(name, workflow.DebugPrefix), ".md")
		s, err := m.Load(slug)
		if err != nil {
			m.logger.Warn("skipping debug session", "file", name, "err", err)
			continue
		}
		if s.Status.Terminal() {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (m *Manager) parseAt(path, content string) (Session, error) {
	s, err := Parse(content)
	if err != nil {
		return Session{}, err
	}
	s.Path = path
	return s, nil
}
