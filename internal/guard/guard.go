// Package guard enforces connection policy on the recipe graph.
//
// The guard subscribes to workspace structural events and runs
// synchronously inside each mutation: a violating connection is reverted
// before the edit settles, so the canvas never renders an illegal graph.
//
// Failure semantics: the guard never raises to the caller. The worst
// outcome of any internal failure is a reverted connection plus a
// transient notice, or silent inaction.
package guard

import (
	"log/slog"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/semantics"
)

// User-facing policy messages for the structural guards.
const (
	msgCombineNeedsMeasured = "only a measured-ingredient block may be combined"
	msgCombineNeedsAction   = "only an action-value block may be combined here"
	msgWrapIngredientFirst  = "wrap the ingredient name in a measured-ingredient block before using it"
)

// nudge offset applied to a forcibly detached block so it does not sit on
// top of its former parent.
const (
	nudgeX = 40
	nudgeY = 40
)

// Guard polices the three structural sites of a workspace: combine item
// slots, action-combine item slots, and action item sockets.
//
// The guard is stateless between events; it holds only the workspace and
// a notifier, and looks blocks up by ID per event.
type Guard struct {
	ws     *blocks.Workspace
	notify Notifier
	log    *slog.Logger
}

// New creates a guard over the workspace. A nil notifier discards notices
// and a nil logger falls back to slog.Default.
func New(ws *blocks.Workspace, notify Notifier, log *slog.Logger) *Guard {
	if notify == nil {
		notify = discardNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Guard{ws: ws, notify: notify, log: log}
}

// Attach subscribes the guard to the workspace event stream.
func (g *Guard) Attach() {
	g.ws.Subscribe(g.handle)
}

// handle processes one structural event.
//
// Only connect events are policed. Disconnections, including the guard's
// own corrective ones, are never re-evaluated, so a revert cannot cascade.
func (g *Guard) handle(ev blocks.Event) {
	defer func() {
		if r := recover(); r != nil {
			// A policy failure must never corrupt editor state beyond
			// "edit reverted"; swallow and log.
			g.log.Error("guard recovered", "panic", r, "block", ev.Block, "input", ev.Input)
		}
	}()

	if ev.Kind != blocks.EventConnect {
		return
	}

	parent := g.ws.Get(ev.Block)
	if parent == nil {
		return
	}
	child := g.ws.InputChild(ev.Block, ev.Input)
	if child == nil {
		return
	}

	switch {
	case parent.Kind() == blocks.KindCombine && blocks.ItemSlot(ev.Input) >= 0:
		g.checkCombineSlot(parent, ev.Input, child)

	case parent.Kind() == blocks.KindActionCombine && blocks.ItemSlot(ev.Input) >= 0:
		g.checkActionCombineSlot(parent, ev.Input, child)

	case ev.Input == blocks.InputItem && parent.Kind() == blocks.KindAction:
		g.checkActionInput(parent, ev.Input, child)

	default:
		// Not a policed site.
	}
}

// checkCombineSlot enforces that only quantity wrappers enter a combine
// node's item slots.
func (g *Guard) checkCombineSlot(parent *blocks.Instance, input string, child *blocks.Instance) {
	if child.Kind() == blocks.KindIngredient {
		return
	}
	g.revert(parent.ID(), input, child.ID())
	g.notify.Error(msgCombineNeedsMeasured)
}

// checkActionCombineSlot enforces that only action-value outputs enter an
// action-combine node's item slots.
func (g *Guard) checkActionCombineSlot(parent *blocks.Instance, input string, child *blocks.Instance) {
	if child.HasOutputCheck(blocks.CheckAction) {
		return
	}
	g.revert(parent.ID(), input, child.ID())
	g.notify.Error(msgCombineNeedsAction)
}

// checkActionInput enforces the direct-leaf guard and then evaluates the
// action's semantic rule over the connected subtree.
func (g *Guard) checkActionInput(parent *blocks.Instance, input string, child *blocks.Instance) {
	action, ok := parent.Archetype().ActionName()
	if !ok {
		return
	}

	if child.HasOutputCheck(blocks.CheckIngredientName) {
		g.revert(parent.ID(), input, child.ID())
		g.notify.Error(msgWrapIngredientFirst)
		return
	}

	features := semantics.ResolveFeatures(g.ws, child.ID())
	leaves := semantics.CountIngredientLeaves(g.ws, child.ID())
	verdict := semantics.Evaluate(action, features, leaves)

	switch {
	case verdict.Rejected():
		g.log.Info("connection rejected",
			"action", action,
			"features", features.Sorted(),
			"leaves", leaves,
			"reason", verdict.Message,
		)
		g.revert(parent.ID(), input, child.ID())
		g.notify.Error(verdict.Message)

	case verdict.Warned():
		g.log.Info("connection warned",
			"action", action,
			"features", features.Sorted(),
			"reason", verdict.Message,
		)
		g.notify.Warn(verdict.Message)
	}
}

// revert disconnects the offending connection and nudges the detached
// child off its former parent. The nudge is a canvas affordance; any
// failure there is swallowed.
func (g *Guard) revert(parent blocks.ID, input string, child blocks.ID) {
	g.ws.Disconnect(parent, input)

	func() {
		defer func() { _ = recover() }()
		g.ws.MoveBy(child, nudgeX, nudgeY)
	}()
}
