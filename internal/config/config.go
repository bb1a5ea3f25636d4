// internal/config/config.go
//
// This package handles planning configuration. Settings are layered:
// built-in defaults, then the user's ~/.config/gsd/config.toml, then the
// project's .planning/config.json. Later layers win per leaf key.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/gsd/internal/workflow"
)

// UserConfigFile is the name of the per-user override file.
const UserConfigFile = "config.toml"

// WorkflowToggles switches optional agents on or off.
type WorkflowToggles struct {
	Research  bool `yaml:"research" json:"research"`
	PlanCheck bool `yaml:"plan_check" json:"plan_check"`
	Verifier  bool `yaml:"verifier" json:"verifier"`
}

// PlanningLimits bounds plan size.
type PlanningLimits struct {
	MaxTasksPerPlan int `yaml:"max_tasks_per_plan" json:"max_tasks_per_plan"`
}

// Gates controls which steps stop for user confirmation.
type Gates struct {
	PlanReview bool `yaml:"plan_review" json:"plan_review"`
}

// PlanningConfig models .planning/config.json.
type PlanningConfig struct {
	Mode         string          `yaml:"mode" json:"mode"`
	Depth        string          `yaml:"depth" json:"depth"`
	ModelProfile string          `yaml:"model_profile" json:"model_profile"`
	CommitDocs   bool            `yaml:"commit_docs" json:"commit_docs"`
	Workflow     WorkflowToggles `yaml:"workflow" json:"workflow"`
	Planning     PlanningLimits  `yaml:"planning" json:"planning"`
	Gates        Gates           `yaml:"gates" json:"gates"`
}

// Defaults returns a fresh copy of the built-in settings tree.
func Defaults() map[string]any {
	return map[string]any{
		"mode":          "yolo",
		"depth":         "standard",
		"model_profile": "quality",
		"commit_docs":   true,
		"workflow": map[string]any{
			"research":   true,
			"plan_check": true,
			"verifier":   true,
		},
		"planning": map[string]any{
			"max_tasks_per_plan": 8,
		},
		"gates": map[string]any{
			"plan_review": false,
		},
	}
}

// DefaultJSON renders the defaults as the config.json written by init.
func DefaultJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Defaults(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: encode defaults: %w", err)
	}
	return append(data, '\n'), nil
}

// Config holds the runtime configuration for one project.
type Config struct {
	// ProjectDir is the directory where the user ran gsd from
	ProjectDir string

	// PlanningDir is ProjectDir/.planning
	PlanningDir string

	// UserConfigPath is the optional per-user TOML layer; empty disables it.
	UserConfigPath string

	Planning PlanningConfig

	// Merged is the raw settings tree after all layers were applied.
	Merged map[string]any
}

// Option customizes config loading.
type Option func(*Config)

// WithUserConfig overrides the per-user config path. An empty path skips the
// user layer.
func WithUserConfig(path string) Option {
	return func(c *Config) {
		c.UserConfigPath = path
	}
}

// DefaultUserConfigPath returns ~/.config/gsd/config.toml, or "" when the
// user config directory cannot be determined.
func DefaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gsd", UserConfigFile)
}

// NewConfig loads the layered planning config for projectDir.
func NewConfig(projectDir string, opts ...Option) (*Config, error) {
	cfg := &Config{
		ProjectDir:     projectDir,
		PlanningDir:    filepath.Join(projectDir, workflow.PlanningDir),
		UserConfigPath: DefaultUserConfigPath(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	merged := Defaults()
	user, err := loadUserConfig(cfg.UserConfigPath)
	if err != nil {
		return nil, err
	}
	merged = Merge(merged, user)

	project, err := loadProjectConfig(cfg.ProjectConfigPath())
	if err != nil {
		return nil, err
	}
	merged = Merge(merged, project)

	if err := validate(merged); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	planning, err := decode(merged)
	if err != nil {
		return nil, err
	}
	cfg.Merged = merged
	cfg.Planning = planning
	return cfg, nil
}

// Load returns the merged planning config for the .planning directory at
// planningDir, ignoring the user layer.
func Load(planningDir string) (PlanningConfig, error) {
	cfg, err := NewConfig(filepath.Dir(planningDir), WithUserConfig(""))
	if err != nil {
		return PlanningConfig{}, err
	}
	return cfg.Planning, nil
}

// ProjectConfigPath returns the on-disk location for config.json.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PlanningDir, workflow.FileConfig)
}

// Get walks a dotted path such as "workflow.research" in the merged tree.
func (c *Config) Get(path ...string) (any, bool) {
	var cur any = c.Merged
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func loadUserConfig(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return raw, nil
}

func loadProjectConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return raw, nil
}

func decode(merged map[string]any) (PlanningConfig, error) {
	data, err := yaml.Marshal(merged)
	if err != nil {
		return PlanningConfig{}, fmt.Errorf("config: encode merged settings: %w", err)
	}
	var out PlanningConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return PlanningConfig{}, fmt.Errorf("config: decode merged settings: %w", err)
	}
	return out, nil
}
