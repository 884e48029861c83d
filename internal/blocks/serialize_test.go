package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBoilGraph(t *testing.T) *Workspace {
	t.Helper()
	ws := NewWorkspace()

	leaf, err := ws.NewBlockWithID("water-name", "ingredient_name", &Metadata{
		Features:   []string{"liquid"},
		LockFields: []string{"NAME"},
	})
	require.NoError(t, err)
	require.NoError(t, leaf.InitField("NAME", "물"))

	wrapper, err := ws.NewBlockWithID("water", "ingredient", nil)
	require.NoError(t, err)
	require.NoError(t, wrapper.SetField("AMOUNT", "500"))
	require.NoError(t, wrapper.SetField("UNIT", "ml"))

	_, err = ws.NewBlockWithID("boil", "boil_item", nil)
	require.NoError(t, err)

	require.NoError(t, ws.Connect("water", InputName, "water-name"))
	require.NoError(t, ws.Connect("boil", InputItem, "water"))
	return ws
}

func TestGraph_RoundTrip(t *testing.T) {
	ws := buildBoilGraph(t)

	raw, err := MarshalGraph(ws)
	require.NoError(t, err)

	loaded := NewWorkspace()
	require.NoError(t, UnmarshalGraph(loaded, raw))

	require.Equal(t, ws.Len(), loaded.Len())

	wrapper := loaded.Get("water")
	require.NotNil(t, wrapper)
	assert.Equal(t, "500", wrapper.Field("AMOUNT"))

	leaf := loaded.InputChild("water", InputName)
	require.NotNil(t, leaf)
	assert.Equal(t, []string{"liquid"}, leaf.Features())

	item := loaded.InputChild("boil", InputItem)
	require.NotNil(t, item)
	assert.Equal(t, ID("water"), item.ID())
}

func TestGraph_MarshalDeterministic(t *testing.T) {
	ws := buildBoilGraph(t)

	a, err := MarshalGraph(ws)
	require.NoError(t, err)
	b, err := MarshalGraph(ws)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGraph_UnmarshalWiresBottomUp(t *testing.T) {
	// Regardless of block declaration order, the edge into an action
	// socket must be made after the edges inside its subtree.
	raw := []byte(`{"blocks":[
		{"id":"boil","type":"boil_item","inputs":{"ITEM":"water"}},
		{"id":"water","type":"ingredient","inputs":{"NAME":"water-name"}},
		{"id":"water-name","type":"ingredient_name","fields":{"NAME":"물"},
		 "metadata":{"features":["liquid"],"lockFields":["NAME"]}}
	]}`)

	ws := NewWorkspace()
	var order []Event
	ws.Subscribe(func(ev Event) {
		if ev.Kind == EventConnect {
			order = append(order, ev)
		}
	})
	require.NoError(t, UnmarshalGraph(ws, raw))

	require.Len(t, order, 2)
	assert.Equal(t, ID("water"), order[0].Block)
	assert.Equal(t, ID("boil"), order[1].Block)
}

func TestGraph_UnmarshalMalformed(t *testing.T) {
	ws := NewWorkspace()
	assert.Error(t, UnmarshalGraph(ws, []byte(`{`)))

	ws = NewWorkspace()
	assert.Error(t, UnmarshalGraph(ws, []byte(`{"blocks":[{"id":"a","type":"nope"}]}`)))
}

func TestGraph_ItemSlotsSurvive(t *testing.T) {
	ws := NewWorkspace()
	combine, err := ws.NewBlockWithID("c", "combine", nil)
	require.NoError(t, err)
	_, err = ws.AddItemSlot(combine.ID())
	require.NoError(t, err)

	raw, err := MarshalGraph(ws)
	require.NoError(t, err)

	loaded := NewWorkspace()
	require.NoError(t, UnmarshalGraph(loaded, raw))
	assert.Equal(t, 3, loaded.Get("c").ItemSlots())
}
