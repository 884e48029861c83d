// Package harness runs declarative edit scenarios against the connection
// guard: build blocks, wire connections in order, and assert on the
// notices raised and the connections that survived.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one edit scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Blocks declares the instances to create, in order. The ref names
	// are scenario-local aliases; real workspace IDs are assigned fresh
	// per run.
	Blocks []BlockDecl `yaml:"blocks"`

	// Connections are applied in order after all blocks exist. Each one
	// fires the guard exactly as a live edit would.
	Connections []ConnectionDecl `yaml:"connections"`

	// Expect describes the post-run state.
	Expect Expectation `yaml:"expect"`
}

// BlockDecl declares one block instance.
type BlockDecl struct {
	Ref        string            `yaml:"ref"`
	Type       string            `yaml:"type"`
	Fields     map[string]string `yaml:"fields,omitempty"`
	Features   []string          `yaml:"features,omitempty"`
	LockFields []string          `yaml:"lockFields,omitempty"`

	// ItemSlots overrides the default variadic socket count.
	ItemSlots int `yaml:"itemSlots,omitempty"`
}

// ConnectionDecl wires child's output into parent's named input.
type ConnectionDecl struct {
	Parent string `yaml:"parent"`
	Input  string `yaml:"input"`
	Child  string `yaml:"child"`
}

// Expectation describes the asserted post-run state.
type Expectation struct {
	// Notices must match the raised notices exactly, in order.
	Notices []NoticeDecl `yaml:"notices,omitempty"`

	// Connected lists sockets that must still hold the given child.
	Connected []ConnectionDecl `yaml:"connected,omitempty"`

	// Empty lists sockets that must hold nothing (reverted or never
	// connected).
	Empty []SocketDecl `yaml:"empty,omitempty"`
}

// NoticeDecl is one expected notice.
type NoticeDecl struct {
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

// SocketDecl names a parent input socket.
type SocketDecl struct {
	Parent string `yaml:"parent"`
	Input  string `yaml:"input"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	refs := make(map[string]bool, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.Ref == "" || b.Type == "" {
			return fmt.Errorf("every block needs ref and type")
		}
		if refs[b.Ref] {
			return fmt.Errorf("duplicate block ref %q", b.Ref)
		}
		refs[b.Ref] = true
	}
	for _, c := range s.Connections {
		if !refs[c.Parent] || !refs[c.Child] {
			return fmt.Errorf("connection %s.%s <- %s references undeclared block", c.Parent, c.Input, c.Child)
		}
	}
	return nil
}
