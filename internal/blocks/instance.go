package blocks

import (
	"encoding/json"
	"fmt"
)

// ID is a stable identifier for a block instance within its workspace.
type ID string

// Metadata is the small record attached to some instances at creation.
//
// Features is the sole source of truth for an ingredient-name leaf's
// physical-state tags. LockFields marks palette-spawned fields that must
// stay read-only after creation. Both are immutable once set.
type Metadata struct {
	Features   []string `json:"features,omitempty"`
	LockFields []string `json:"lockFields,omitempty"`
}

// DecodeMetadata parses a serialized metadata record. Malformed input
// degrades to nil (no features known) rather than an error: a broken blob
// must never fail graph traversal.
func DecodeMetadata(raw []byte) *Metadata {
	if len(raw) == 0 {
		return nil
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return &m
}

// Encode serializes the record for embedding in palette output.
func (m *Metadata) Encode() string {
	if m == nil {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

func (m *Metadata) locked(field string) bool {
	if m == nil {
		return false
	}
	for _, f := range m.LockFields {
		if f == field {
			return true
		}
	}
	return false
}

// Instance is a block instance in a workspace.
//
// Instances are created and owned by a Workspace; callers hold IDs, not
// long-lived pointers, across structural edits.
type Instance struct {
	id   ID
	arch Archetype
	meta *Metadata

	fields map[string]string

	// inputs maps socket name to the connected child, if any.
	inputs map[string]ID

	// parent/parentInput track the single consumer of this value output.
	parent      ID
	parentInput string

	// itemSlots is the number of variadic ITEMn sockets currently exposed.
	itemSlots int

	x, y float64
}

// DefaultItemSlots is the initial variadic socket count on combine blocks.
const DefaultItemSlots = 2

// ID returns the instance's stable identifier.
func (b *Instance) ID() ID { return b.id }

// Type returns the archetype's block type.
func (b *Instance) Type() string { return b.arch.Type }

// Kind returns the archetype variant.
func (b *Instance) Kind() Kind { return b.arch.Kind }

// Archetype returns the instance's fixed shape.
func (b *Instance) Archetype() Archetype { return b.arch }

// Metadata returns the attached record, or nil.
func (b *Instance) Metadata() *Metadata { return b.meta }

// Features returns the metadata feature tags, or nil when absent.
func (b *Instance) Features() []string {
	if b.meta == nil {
		return nil
	}
	return b.meta.Features
}

// HasOutputCheck reports whether the instance's value output carries the
// given compatibility label.
func (b *Instance) HasOutputCheck(label string) bool {
	return b.arch.HasOutputCheck(label)
}

// Field returns the current value of a field ("" when unset).
func (b *Instance) Field(name string) string { return b.fields[name] }

// InitField applies a creation-time field value, bypassing LockFields.
// Palette spawning and document loading write locked fields through this
// path; interactive edits go through SetField.
func (b *Instance) InitField(name, value string) error {
	if !b.hasField(name) {
		return fmt.Errorf("block %s (%s): no field %q", b.id, b.arch.Type, name)
	}
	b.fields[name] = value
	return nil
}

// SetField updates a field value. Fields named in the instance metadata's
// LockFields are read-only after creation.
func (b *Instance) SetField(name, value string) error {
	if !b.hasField(name) {
		return fmt.Errorf("block %s (%s): no field %q", b.id, b.arch.Type, name)
	}
	if b.meta.locked(name) {
		return fmt.Errorf("block %s (%s): field %q is locked", b.id, b.arch.Type, name)
	}
	b.fields[name] = value
	return nil
}

func (b *Instance) hasField(name string) bool {
	for _, f := range b.arch.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Parent returns the block currently consuming this value output, and the
// input name it is plugged into. Zero values when detached.
func (b *Instance) Parent() (ID, string) { return b.parent, b.parentInput }

// Position returns the canvas coordinates.
func (b *Instance) Position() (x, y float64) { return b.x, b.y }

// ItemSlots returns the exposed variadic socket count (0 for non-variadic
// archetypes).
func (b *Instance) ItemSlots() int { return b.itemSlots }

// acceptsInput reports whether the socket name exists on this instance.
func (b *Instance) acceptsInput(name string) bool {
	for _, in := range b.arch.Inputs {
		if in == name {
			return true
		}
	}
	if b.arch.Variadic() {
		if i := ItemSlot(name); i >= 0 && i < b.itemSlots {
			return true
		}
	}
	return false
}
