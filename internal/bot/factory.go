package bot

import (
	"fmt"
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return &EasyBot{}, nil
	case BotLevelStandard:
		return &StandardBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
