package bot

import (
	"riichi/internal/app"
	"riichi/internal/engine"
)

// BotLevel selects how sophisticated an agent's play is.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelStandard
)

// Brain decides a bot's play. Implementations never mutate the round; they
// probe legality through the service's validators and return only moves the
// engine has already accepted.
type Brain interface {
	// ChooseAction picks the seat's next action.
	ChooseAction(svc *app.Service, r *app.Round, seat int) (engine.Action, error)

	// ChooseReaction offers a claim on another seat's validated action, or
	// reports false to pass.
	ChooseReaction(svc *app.Service, r *app.Round, seat int, action engine.Action) (engine.Reaction, bool)
}
