package bot

import (
	"fmt"

	"riichi/internal/app"
	"riichi/internal/engine"
)

// EasyBot takes whatever win it is handed and otherwise sheds its draw. It
// never calls and never declares riichi.
type EasyBot struct{}

func (b *EasyBot) ChooseAction(svc *app.Service, r *app.Round, seat int) (engine.Action, error) {
	core := r.State.Core
	if core.HasDraw {
		win := engine.Action{Kind: engine.ActionTsumo, Tile: core.Draw}
		if svc.ValidateAction(r, seat, win) == nil {
			return win, nil
		}
		drop := engine.Action{Kind: engine.ActionDiscard, Tile: core.Draw, IsTsumokiri: true}
		if svc.ValidateAction(r, seat, drop) == nil {
			return drop, nil
		}
	}
	// After a call there is no draw; shed the first tile the engine accepts.
	for _, t := range r.State.ClosedHands[seat].Tiles() {
		drop := engine.Action{Kind: engine.ActionDiscard, Tile: t}
		if svc.ValidateAction(r, seat, drop) == nil {
			return drop, nil
		}
	}
	return engine.Action{}, fmt.Errorf("no legal action for seat %d", seat)
}

func (b *EasyBot) ChooseReaction(svc *app.Service, r *app.Round, seat int, action engine.Action) (engine.Reaction, bool) {
	ron := engine.Reaction{Kind: engine.ReactionRon}
	if svc.ValidateReaction(r, seat, action, ron) == nil {
		return ron, true
	}
	return engine.Reaction{}, false
}

// StandardBot plays like EasyBot but also declares concealed quads and locks
// a ready hand with riichi on its draw.
type StandardBot struct {
	EasyBot
}

func (b *StandardBot) ChooseAction(svc *app.Service, r *app.Round, seat int) (engine.Action, error) {
	core := r.State.Core
	if core.HasDraw {
		win := engine.Action{Kind: engine.ActionTsumo, Tile: core.Draw}
		if svc.ValidateAction(r, seat, win) == nil {
			return win, nil
		}
		kan := engine.Action{Kind: engine.ActionAnkan, Tile: core.Draw}
		if svc.ValidateAction(r, seat, kan) == nil {
			return kan, nil
		}
		reach := engine.Action{Kind: engine.ActionDiscard, Tile: core.Draw, IsTsumokiri: true, DeclaresRiichi: true}
		if !core.Riichi[seat].Active && svc.ValidateAction(r, seat, reach) == nil {
			return reach, nil
		}
	}
	return b.EasyBot.ChooseAction(svc, r, seat)
}
