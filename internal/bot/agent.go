package bot

import (
	"riichi/internal/app"
	"riichi/internal/engine"
)

// Agent represents an autonomous bot player filling one seat.
type Agent struct {
	ID    string
	Level BotLevel
	brain Brain
}

// NewAgent builds an agent for the given bot user, picking its brain from the
// identity pool's difficulty setting.
func NewAgent(userID string) (*Agent, error) {
	level := BotLevelEasy
	if cfg, ok := GetBotConfig(userID); ok {
		switch cfg.Difficulty {
		case "medium", "hard":
			level = BotLevelStandard
		}
	}
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Level: level, brain: brain}, nil
}

// Act picks the agent's next validated action for its seat.
func (a *Agent) Act(svc *app.Service, r *app.Round, seat int) (engine.Action, error) {
	return a.brain.ChooseAction(svc, r, seat)
}

// React offers the agent a claim on another seat's committed action.
func (a *Agent) React(svc *app.Service, r *app.Round, seat int, action engine.Action) (engine.Reaction, bool) {
	return a.brain.ChooseReaction(svc, r, seat, action)
}
