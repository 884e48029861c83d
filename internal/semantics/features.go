// Package semantics is the validation core: it resolves the feature set
// implied by a subtree of the connection graph and evaluates per-action
// rules against it.
//
// Everything here is pure. Resolution and evaluation read the current
// graph shape and leaf metadata, keep no state, and terminate in time
// proportional to subtree size.
package semantics

import (
	"sort"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
)

// Ingredient feature tags.
const (
	FeatureSolid  = "solid"
	FeatureLiquid = "liquid"
	FeaturePowder = "powder"
	FeatureOil    = "oil"
	FeatureNoodle = "noodle"
	FeatureLeafy  = "leafy"
)

// KnownFeatures lists the recognized tags.
var KnownFeatures = []string{
	FeatureSolid, FeatureLiquid, FeaturePowder,
	FeatureOil, FeatureNoodle, FeatureLeafy,
}

// FeatureSet is an unordered set of feature tags.
type FeatureSet map[string]struct{}

// NewFeatureSet builds a set from tags; duplicates collapse.
func NewFeatureSet(tags ...string) FeatureSet {
	s := make(FeatureSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s FeatureSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// AddAll unions other into s.
func (s FeatureSet) AddAll(other FeatureSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Equal reports set equality.
func (s FeatureSet) Equal(other FeatureSet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Sorted returns the tags in lexical order, for logs and messages.
func (s FeatureSet) Sorted() []string {
	tags := make([]string, 0, len(s))
	for t := range s {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// ResolveFeatures computes the union of features implied by all ingredient
// leaves reachable from root through quantity wrappers and combine nodes.
//
// A raw ingredient-name leaf reached directly contributes nothing: the
// quantity wrapper is the only attribution point for a leaf's features.
func ResolveFeatures(ws *blocks.Workspace, root blocks.ID) FeatureSet {
	out := make(FeatureSet)
	resolveInto(ws, root, out)
	return out
}

func resolveInto(ws *blocks.Workspace, id blocks.ID, out FeatureSet) {
	b := ws.Get(id)
	if b == nil {
		return
	}

	switch b.Kind() {
	case blocks.KindIngredient:
		leaf := ws.InputChild(id, blocks.InputName)
		if leaf == nil {
			return
		}
		for _, tag := range leaf.Features() {
			out[tag] = struct{}{}
		}

	case blocks.KindCombine, blocks.KindActionCombine:
		for i := 0; i < b.ItemSlots(); i++ {
			if child := ws.InputChild(id, blocks.ItemSlotName(i)); child != nil {
				resolveInto(ws, child.ID(), out)
			}
		}

	case blocks.KindAction:
		if child := ws.InputChild(id, blocks.InputItem); child != nil {
			resolveInto(ws, child.ID(), out)
		}

	default:
		// Raw leaves, control flow, unknown kinds: nothing.
	}
}

// CountIngredientLeaves walks the same subtree shape as ResolveFeatures
// and counts quantity-wrapper leaves. An empty wrapper still counts: it
// occupies a measured slot even before its name socket is filled.
func CountIngredientLeaves(ws *blocks.Workspace, root blocks.ID) int {
	b := ws.Get(root)
	if b == nil {
		return 0
	}

	switch b.Kind() {
	case blocks.KindIngredient:
		return 1

	case blocks.KindCombine, blocks.KindActionCombine:
		n := 0
		for i := 0; i < b.ItemSlots(); i++ {
			if child := ws.InputChild(root, blocks.ItemSlotName(i)); child != nil {
				n += CountIngredientLeaves(ws, child.ID())
			}
		}
		return n

	case blocks.KindAction:
		if child := ws.InputChild(root, blocks.InputItem); child != nil {
			return CountIngredientLeaves(ws, child.ID())
		}
		return 0

	default:
		return 0
	}
}
