// Package plan loads and saves plan descriptors. Descriptors are small YAML
// or JSON documents naming the session, the originating request and the task
// graph; parsing always ends in core.NewPlan, so a descriptor that loads is a
// plan that validates.
package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/taskmesh/core"
)

type taskSpec struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name,omitempty" json:"name,omitempty"`
	Payload      string   `yaml:"payload,omitempty" json:"payload,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

type planSpec struct {
	SessionID string     `yaml:"session_id,omitempty" json:"session_id,omitempty"`
	Request   string     `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Tasks     []taskSpec `yaml:"tasks" json:"tasks"`
}

// NewSessionID returns a fresh session identifier of the form "S" followed by
// eight hex characters.
func NewSessionID() string {
	return "S" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Load parses a plan descriptor from the reader. YAML and JSON inputs are
// both accepted. A missing session id is filled with a fresh one; a missing
// task name defaults to the task id. The returned plan is validated.
func Load(r io.Reader) (*core.Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var spec planSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	if spec.SessionID == "" {
		spec.SessionID = NewSessionID()
	}

	tasks := make([]core.Task, 0, len(spec.Tasks))
	for _, ts := range spec.Tasks {
		name := ts.Name
		if name == "" {
			name = ts.ID
		}
		tasks = append(tasks, core.Task{
			ID:           ts.ID,
			Name:         name,
			Payload:      ts.Payload,
			Dependencies: ts.Dependencies,
		})
	}

	return core.NewPlan(spec.SessionID, spec.Request, tasks)
}

// LoadFile reads and parses a plan descriptor file.
func LoadFile(path string) (*core.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// SaveFile writes the plan as an indented JSON descriptor, suitable for
// inspection and re-loading with LoadFile.
func SaveFile(p *core.Plan, path string) error {
	spec := planSpec{
		SessionID: p.SessionID,
		Request:   p.Request,
		Tasks:     make([]taskSpec, 0, len(p.Tasks)),
	}
	for _, t := range p.Tasks {
		spec.Tasks = append(spec.Tasks, taskSpec{
			ID:           t.ID,
			Name:         t.Name,
			Payload:      t.Payload,
			Dependencies: t.Dependencies,
		})
	}

	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
