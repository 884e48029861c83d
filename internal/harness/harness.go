package harness

import (
	"fmt"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/guard"
)

// Result is the observable outcome of a scenario run.
type Result struct {
	Workspace *blocks.Workspace
	Notices   []guard.Notice

	// IDs maps scenario refs to the workspace IDs assigned this run.
	IDs map[string]blocks.ID
}

// Run executes a scenario: create all blocks, attach the guard, then
// apply connections in order. Connection errors from the workspace
// itself (unknown sockets, occupied inputs) fail the run; guard reverts
// do not, since they are the behavior under test.
func Run(s *Scenario) (*Result, error) {
	ws := blocks.NewWorkspace()
	rec := &guard.Recorder{}

	ids := make(map[string]blocks.ID, len(s.Blocks))
	for _, decl := range s.Blocks {
		meta := blockMeta(decl)
		b, err := ws.NewBlock(decl.Type, meta)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: block %s: %w", s.Name, decl.Ref, err)
		}
		ids[decl.Ref] = b.ID()

		for name, value := range decl.Fields {
			// Declared fields are creation-time values, same as a palette
			// spawn, so locked fields are writable here.
			if err := b.InitField(name, value); err != nil {
				return nil, fmt.Errorf("scenario %s: block %s: %w", s.Name, decl.Ref, err)
			}
		}
		if decl.ItemSlots > blocks.DefaultItemSlots {
			for i := blocks.DefaultItemSlots; i < decl.ItemSlots; i++ {
				if _, err := ws.AddItemSlot(b.ID()); err != nil {
					return nil, fmt.Errorf("scenario %s: block %s: %w", s.Name, decl.Ref, err)
				}
			}
		}
	}

	g := guard.New(ws, rec, nil)
	g.Attach()

	for _, c := range s.Connections {
		if err := ws.Connect(ids[c.Parent], c.Input, ids[c.Child]); err != nil {
			return nil, fmt.Errorf("scenario %s: connect %s.%s <- %s: %w", s.Name, c.Parent, c.Input, c.Child, err)
		}
	}

	return &Result{Workspace: ws, Notices: rec.Notices, IDs: ids}, nil
}

// Check verifies the scenario's expectations against a run result.
// Returns every mismatch; an empty slice means the scenario passed.
func Check(s *Scenario, res *Result) []string {
	var failures []string

	if len(s.Expect.Notices) != len(res.Notices) {
		failures = append(failures, fmt.Sprintf(
			"expected %d notice(s), got %d: %v",
			len(s.Expect.Notices), len(res.Notices), res.Notices))
	} else {
		for i, want := range s.Expect.Notices {
			got := res.Notices[i]
			if string(got.Severity) != want.Severity || got.Message != want.Message {
				failures = append(failures, fmt.Sprintf(
					"notice %d: expected %s %q, got %s %q",
					i, want.Severity, want.Message, got.Severity, got.Message))
			}
		}
	}

	for _, want := range s.Expect.Connected {
		child := res.Workspace.InputChild(res.IDs[want.Parent], want.Input)
		if child == nil {
			failures = append(failures, fmt.Sprintf(
				"%s.%s: expected %s connected, socket is empty", want.Parent, want.Input, want.Child))
			continue
		}
		if child.ID() != res.IDs[want.Child] {
			failures = append(failures, fmt.Sprintf(
				"%s.%s: expected %s connected, found another block", want.Parent, want.Input, want.Child))
		}
	}

	for _, want := range s.Expect.Empty {
		if child := res.Workspace.InputChild(res.IDs[want.Parent], want.Input); child != nil {
			failures = append(failures, fmt.Sprintf(
				"%s.%s: expected empty socket, found %s", want.Parent, want.Input, child.Type()))
		}
	}

	return failures
}

func blockMeta(decl BlockDecl) *blocks.Metadata {
	if len(decl.Features) == 0 && len(decl.LockFields) == 0 {
		return nil
	}
	return &blocks.Metadata{Features: decl.Features, LockFields: decl.LockFields}
}
