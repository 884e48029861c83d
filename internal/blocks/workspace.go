package blocks

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind classifies a structural change notification.
type EventKind int

const (
	EventCreate EventKind = iota
	EventConnect
	EventDisconnect
	EventRemove
)

// Event is a structural change notification.
//
// Connect and disconnect events carry the parent block, the input name,
// and the child that was attached or detached.
type Event struct {
	Kind  EventKind
	Block ID
	Input string
	Child ID
}

// Observer receives structural events. Observers run synchronously inside
// the mutation that produced the event, in subscription order, before the
// mutating call returns.
type Observer func(Event)

// Workspace is the arena of block instances and their connections.
//
// The model is single-threaded and cooperative: there is exactly one
// logical writer (the user edit, plus any corrective edit an observer
// issues in reaction to it). Workspace does no locking.
type Workspace struct {
	instances map[ID]*Instance
	order     []ID // creation order, for deterministic serialization
	observers []Observer
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{instances: make(map[ID]*Instance)}
}

// Subscribe registers an observer for all subsequent structural events.
func (w *Workspace) Subscribe(obs Observer) {
	w.observers = append(w.observers, obs)
}

func (w *Workspace) emit(ev Event) {
	for _, obs := range w.observers {
		obs(ev)
	}
}

// NewBlock creates an instance of the given block type with a fresh ID.
func (w *Workspace) NewBlock(blockType string, meta *Metadata) (*Instance, error) {
	return w.NewBlockWithID(ID(uuid.NewString()), blockType, meta)
}

// NewBlockWithID creates an instance with an explicit ID, as when a
// serialized graph is loaded. The ID must be unique within the workspace.
func (w *Workspace) NewBlockWithID(id ID, blockType string, meta *Metadata) (*Instance, error) {
	arch, ok := ArchetypeFor(blockType)
	if !ok {
		return nil, fmt.Errorf("unknown block type %q", blockType)
	}
	if id == "" {
		return nil, fmt.Errorf("block type %q: empty id", blockType)
	}
	if _, exists := w.instances[id]; exists {
		return nil, fmt.Errorf("duplicate block id %q", id)
	}

	b := &Instance{
		id:     id,
		arch:   arch,
		meta:   meta,
		fields: make(map[string]string, len(arch.Fields)),
		inputs: make(map[string]ID),
	}
	if arch.Variadic() {
		b.itemSlots = DefaultItemSlots
	}
	w.instances[id] = b
	w.order = append(w.order, id)

	w.emit(Event{Kind: EventCreate, Block: id})
	return b, nil
}

// Get returns the instance for an ID, or nil when absent.
func (w *Workspace) Get(id ID) *Instance {
	return w.instances[id]
}

// Len returns the number of live instances.
func (w *Workspace) Len() int { return len(w.instances) }

// InputChild returns the block connected to the named input, or nil.
func (w *Workspace) InputChild(id ID, input string) *Instance {
	b := w.instances[id]
	if b == nil {
		return nil
	}
	child, ok := b.inputs[input]
	if !ok {
		return nil
	}
	return w.instances[child]
}

// Connect plugs child's value output into parent's named input.
//
// A value output feeds at most one input at a time: if the child is
// already connected elsewhere it is detached first (emitting a disconnect
// event), mirroring a drag on the canvas. An occupied target input is an
// error; the canvas never over-plugs a socket.
func (w *Workspace) Connect(parent ID, input string, child ID) error {
	p := w.instances[parent]
	if p == nil {
		return fmt.Errorf("connect: no block %q", parent)
	}
	c := w.instances[child]
	if c == nil {
		return fmt.Errorf("connect: no block %q", child)
	}
	if parent == child {
		return fmt.Errorf("connect: block %q cannot feed itself", parent)
	}
	if len(c.arch.OutputChecks) == 0 {
		return fmt.Errorf("connect: block %q (%s) has no value output", child, c.arch.Type)
	}
	if !p.acceptsInput(input) {
		return fmt.Errorf("connect: block %q (%s) has no input %q", parent, p.arch.Type, input)
	}
	if occupied, ok := p.inputs[input]; ok {
		return fmt.Errorf("connect: input %s.%s already holds %q", parent, input, occupied)
	}
	if w.wouldCycle(parent, child) {
		return fmt.Errorf("connect: %q is already downstream of %q", parent, child)
	}

	if c.parent != "" {
		w.Disconnect(c.parent, c.parentInput)
	}

	p.inputs[input] = child
	c.parent = parent
	c.parentInput = input

	w.emit(Event{Kind: EventConnect, Block: parent, Input: input, Child: child})
	return nil
}

// Disconnect detaches whatever is plugged into parent's named input.
// Detaching an empty or unknown socket is a no-op.
func (w *Workspace) Disconnect(parent ID, input string) {
	p := w.instances[parent]
	if p == nil {
		return
	}
	childID, ok := p.inputs[input]
	if !ok {
		return
	}
	delete(p.inputs, input)
	if c := w.instances[childID]; c != nil {
		c.parent = ""
		c.parentInput = ""
	}

	w.emit(Event{Kind: EventDisconnect, Block: parent, Input: input, Child: childID})
}

// Remove deletes an instance. Its children are detached and stay in the
// workspace as roots; its own output is unplugged from any consumer.
func (w *Workspace) Remove(id ID) {
	b := w.instances[id]
	if b == nil {
		return
	}
	if b.parent != "" {
		w.Disconnect(b.parent, b.parentInput)
	}
	for input := range b.inputs {
		w.Disconnect(id, input)
	}

	delete(w.instances, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.emit(Event{Kind: EventRemove, Block: id})
}

// MoveBy shifts an instance's canvas position. Unknown IDs are ignored;
// this is a rendering affordance, never a correctness concern.
func (w *Workspace) MoveBy(id ID, dx, dy float64) {
	if b := w.instances[id]; b != nil {
		b.x += dx
		b.y += dy
	}
}

// MoveTo places an instance at an absolute canvas position.
func (w *Workspace) MoveTo(id ID, x, y float64) {
	if b := w.instances[id]; b != nil {
		b.x = x
		b.y = y
	}
}

// AddItemSlot exposes one more variadic ITEMn socket on a combine block.
// Returns the new socket name.
func (w *Workspace) AddItemSlot(id ID) (string, error) {
	b := w.instances[id]
	if b == nil {
		return "", fmt.Errorf("add item slot: no block %q", id)
	}
	if !b.arch.Variadic() {
		return "", fmt.Errorf("add item slot: block %q (%s) is not variadic", id, b.arch.Type)
	}
	name := ItemSlotName(b.itemSlots)
	b.itemSlots++
	return name, nil
}

// wouldCycle reports whether plugging child under parent would make the
// graph cyclic (parent reachable from child through value inputs).
func (w *Workspace) wouldCycle(parent, child ID) bool {
	seen := make(map[ID]bool)
	var walk func(ID) bool
	walk = func(id ID) bool {
		if id == parent {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		b := w.instances[id]
		if b == nil {
			return false
		}
		for _, next := range b.inputs {
			if walk(next) {
				return true
			}
		}
		return false
	}
	return walk(child)
}
