package guard

import (
	"log/slog"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/blocks"
)

// ValidateGraph replays a serialized graph into a fresh workspace with a
// guard attached and returns every notice the replay raised. A document
// that loads without error notices is structurally and semantically
// clean; reverted connections are simply absent from the loaded result.
func ValidateGraph(raw []byte, log *slog.Logger) ([]Notice, error) {
	ws := blocks.NewWorkspace()
	rec := &Recorder{}
	g := New(ws, rec, log)
	g.Attach()

	if err := blocks.UnmarshalGraph(ws, raw); err != nil {
		return nil, err
	}
	return rec.Notices, nil
}
