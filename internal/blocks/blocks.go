// Package blocks models the recipe connection graph: block archetypes,
// block instances, and the workspace arena that owns them.
//
// The canvas that renders blocks is an external collaborator. This package
// is the structural source of truth it manipulates: every connect and
// disconnect goes through the Workspace, which notifies subscribers
// synchronously so policy enforcement settles before the edit does.
package blocks

import (
	"strconv"
	"strings"
)

// Kind is the closed set of block archetype variants.
//
// The feature resolver and the connection guard switch on Kind instead of
// probing instance structure.
type Kind int

const (
	KindUnknown Kind = iota

	// KindIngredientName is a raw ingredient-name leaf. It carries the
	// ingredient's feature metadata but contributes nothing until wrapped.
	KindIngredientName

	// KindIngredient is the quantity wrapper: NAME socket plus amount and
	// unit fields. The sole attribution point for an ingredient's features.
	KindIngredient

	// KindCombine aggregates measured ingredients through variadic ITEMn
	// sockets.
	KindCombine

	// KindActionCombine aggregates action-value blocks through variadic
	// ITEMn sockets.
	KindActionCombine

	// KindAction is a cooking action with a singular ITEM socket. Action
	// blocks chain as statements and also emit an action value.
	KindAction

	// KindControl is control flow (start, repeat, ...). Condition strings
	// are opaque to the engine.
	KindControl
)

// Output check labels used for connection compatibility.
const (
	CheckIngredientName = "ING_NAME"
	CheckIngredient     = "ING"
	CheckAction         = "ACTION"
)

// Input socket names.
const (
	InputName = "NAME" // quantity wrapper's ingredient-name socket
	InputItem = "ITEM" // an action's singular item socket

	itemSlotPrefix = "ITEM"
)

// actionTypeSuffix is stripped from an action block type to obtain the
// action identifier ("boil_item" -> "boil").
const actionTypeSuffix = "_item"

// Archetype describes the fixed shape of a block type.
type Archetype struct {
	Type string
	Kind Kind

	// OutputChecks lists the value-output compatibility labels.
	// Empty means the block has no value output.
	OutputChecks []string

	// Inputs lists the fixed named value sockets. Variadic ITEMn sockets
	// are implied by Kind and not listed here.
	Inputs []string

	// Fields lists the editable field names, in declaration order.
	Fields []string

	PreviousConnectable bool
	NextConnectable     bool
}

// HasOutputCheck reports whether the archetype's output carries the label.
func (a Archetype) HasOutputCheck(label string) bool {
	for _, c := range a.OutputChecks {
		if c == label {
			return true
		}
	}
	return false
}

// Variadic reports whether the archetype exposes ITEMn item slots.
func (a Archetype) Variadic() bool {
	return a.Kind == KindCombine || a.Kind == KindActionCombine
}

// ActionName returns the action identifier for an action archetype.
// Returns "", false for every other kind.
func (a Archetype) ActionName() (string, bool) {
	if a.Kind != KindAction {
		return "", false
	}
	return strings.TrimSuffix(a.Type, actionTypeSuffix), true
}

// archetypes is the closed registry of block types, in declaration order.
var archetypes = []Archetype{
	{
		Type:         "ingredient_name",
		Kind:         KindIngredientName,
		OutputChecks: []string{CheckIngredientName},
		Fields:       []string{"NAME"},
	},
	{
		Type:         "ingredient",
		Kind:         KindIngredient,
		OutputChecks: []string{CheckIngredient},
		Inputs:       []string{InputName},
		Fields:       []string{"AMOUNT", "UNIT"},
	},
	{
		Type:         "combine",
		Kind:         KindCombine,
		OutputChecks: []string{CheckIngredient},
	},
	{
		Type:         "action_combine",
		Kind:         KindActionCombine,
		OutputChecks: []string{CheckAction},
	},

	{Type: "put_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, PreviousConnectable: true, NextConnectable: true},
	{Type: "slice_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, PreviousConnectable: true, NextConnectable: true},
	{Type: "grind_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, PreviousConnectable: true, NextConnectable: true},
	{Type: "mix_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, PreviousConnectable: true, NextConnectable: true},
	{Type: "fry_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, Fields: []string{"TIME"}, PreviousConnectable: true, NextConnectable: true},
	{Type: "boil_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, Fields: []string{"TIME"}, PreviousConnectable: true, NextConnectable: true},
	{Type: "simmer_item", Kind: KindAction, OutputChecks: []string{CheckAction},
		Inputs: []string{InputItem}, Fields: []string{"TIME"}, PreviousConnectable: true, NextConnectable: true},

	{Type: "start", Kind: KindControl, NextConnectable: true},
	{Type: "repeat", Kind: KindControl, Fields: []string{"COUNT"},
		PreviousConnectable: true, NextConnectable: true},
	{Type: "repeat_until", Kind: KindControl, Fields: []string{"COND"},
		PreviousConnectable: true, NextConnectable: true},
}

var archetypeIndex = func() map[string]Archetype {
	idx := make(map[string]Archetype, len(archetypes))
	for _, a := range archetypes {
		idx[a.Type] = a
	}
	return idx
}()

// ArchetypeFor looks up an archetype by block type.
func ArchetypeFor(blockType string) (Archetype, bool) {
	a, ok := archetypeIndex[blockType]
	return a, ok
}

// Archetypes returns the registry in declaration order.
// The returned slice must not be mutated.
func Archetypes() []Archetype {
	return archetypes
}

// ItemSlot returns the index of a variadic item slot name ("ITEM0" -> 0).
// Returns -1 if the name is not an item slot. The bare "ITEM" is an
// action's singular socket, not a variadic slot.
func ItemSlot(input string) int {
	if !strings.HasPrefix(input, itemSlotPrefix) {
		return -1
	}
	digits := input[len(itemSlotPrefix):]
	if digits == "" {
		return -1
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// ItemSlotName builds the variadic slot name for an index.
func ItemSlotName(index int) string {
	return itemSlotPrefix + strconv.Itoa(index)
}
