package blocks

import (
	"encoding/json"
	"fmt"
	"sort"
)

// serializedBlock is the wire form of one instance.
type serializedBlock struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	X         float64           `json:"x,omitempty"`
	Y         float64           `json:"y,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Metadata  *Metadata         `json:"metadata,omitempty"`
	ItemSlots int               `json:"itemSlots,omitempty"`
	Inputs    map[string]string `json:"inputs,omitempty"`
}

// serializedGraph is the wire form of a whole workspace.
type serializedGraph struct {
	Blocks []serializedBlock `json:"blocks"`
}

// MarshalGraph serializes the workspace. Blocks appear in creation order
// so an unmodified workspace always serializes identically.
func MarshalGraph(w *Workspace) ([]byte, error) {
	g := serializedGraph{Blocks: make([]serializedBlock, 0, len(w.order))}
	for _, id := range w.order {
		b := w.instances[id]
		sb := serializedBlock{
			ID:       string(b.id),
			Type:     b.arch.Type,
			X:        b.x,
			Y:        b.y,
			Metadata: b.meta,
		}
		if b.arch.Variadic() && b.itemSlots != DefaultItemSlots {
			sb.ItemSlots = b.itemSlots
		}
		if len(b.fields) > 0 {
			sb.Fields = make(map[string]string, len(b.fields))
			for k, v := range b.fields {
				sb.Fields[k] = v
			}
		}
		if len(b.inputs) > 0 {
			sb.Inputs = make(map[string]string, len(b.inputs))
			for k, v := range b.inputs {
				sb.Inputs[k] = string(v)
			}
		}
		g.Blocks = append(g.Blocks, sb)
	}
	return json.Marshal(g)
}

// UnmarshalGraph loads a serialized graph into a workspace, creating all
// blocks first and then wiring connections in a deterministic order.
//
// Events fire exactly as they would for live edits, so a guard subscribed
// before loading re-polices the document; subscribe after loading to take
// the stored shape as-is.
func UnmarshalGraph(w *Workspace, raw []byte) error {
	var g serializedGraph
	if err := json.Unmarshal(raw, &g); err != nil {
		return fmt.Errorf("decode graph: %w", err)
	}

	for _, sb := range g.Blocks {
		b, err := w.NewBlockWithID(ID(sb.ID), sb.Type, sb.Metadata)
		if err != nil {
			return fmt.Errorf("decode graph: %w", err)
		}
		w.MoveTo(b.id, sb.X, sb.Y)
		if sb.ItemSlots > b.itemSlots {
			b.itemSlots = sb.ItemSlots
		}
		for _, name := range sortedKeys(sb.Fields) {
			// Locked fields were written at creation time by the palette;
			// restore them through the creation path, not SetField.
			if err := b.InitField(name, sb.Fields[name]); err != nil {
				return fmt.Errorf("decode graph: %w", err)
			}
		}
	}

	// Wire connections bottom-up: an edge into a block is made only after
	// every edge inside that block's subtree. A guard replaying the load
	// then sees each action socket connect with its subtree complete, the
	// same shape a live edit session produced.
	for _, e := range bottomUpEdges(g.Blocks) {
		if err := w.Connect(e.parent, e.input, e.child); err != nil {
			return fmt.Errorf("decode graph: %w", err)
		}
	}
	return nil
}

type graphEdge struct {
	parent ID
	input  string
	child  ID
}

func bottomUpEdges(sblocks []serializedBlock) []graphEdge {
	inputs := make(map[string]map[string]string, len(sblocks))
	for _, sb := range sblocks {
		inputs[sb.ID] = sb.Inputs
	}

	depths := make(map[string]int, len(sblocks))
	var depth func(id string) int
	depth = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}
		depths[id] = 0 // breaks accidental cycles; Connect rejects them anyway
		d := 0
		for _, child := range inputs[id] {
			if cd := depth(child) + 1; cd > d {
				d = cd
			}
		}
		depths[id] = d
		return d
	}

	var edges []graphEdge
	for _, sb := range sblocks {
		for _, input := range sortedKeys(sb.Inputs) {
			edges = append(edges, graphEdge{ID(sb.ID), input, ID(sb.Inputs[input])})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		di, dj := depth(string(edges[i].child)), depth(string(edges[j].child))
		if di != dj {
			return di < dj
		}
		if edges[i].parent != edges[j].parent {
			return edges[i].parent < edges[j].parent
		}
		return edges[i].input < edges[j].input
	})
	return edges
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
