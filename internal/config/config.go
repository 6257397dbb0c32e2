package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Rules holds the rule-variant knobs of a table. Zero values are replaced by
// the standard rule set on load, so a partial config file only overrides what
// it names.
type Rules struct {
	StartPoints int  `json:"start_points"`
	UseRedFives bool `json:"use_red_fives"`

	RiichiBet        int `json:"riichi_bet"`
	NotenPenaltyPool int `json:"noten_penalty_pool"`
	HonbaUnit        int `json:"honba_unit"`

	NagashiDealerPoints int `json:"nagashi_dealer_points"`
	NagashiPoints       int `json:"nagashi_points"`

	ForbidSwapCall  bool `json:"forbid_swap_call"`
	AbortNineKinds  bool `json:"abort_nine_kinds"`
	AbortFourWind   bool `json:"abort_four_wind"`
	AbortFourKan    bool `json:"abort_four_kan"`
	AbortFourRiichi bool `json:"abort_four_riichi"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		StartPoints:             25000,
		UseRedFives:             true,
		RiichiBet:               1000,
		NotenPenaltyPool:        3000,
		HonbaUnit:               100,
		NagashiDealerPoints:     12000,
		NagashiPoints:           8000,
		ForbidSwapCall:          true,
		AbortNineKinds:          true,
		AbortFourWind:           true,
		AbortFourKan:            true,
		AbortFourRiichi:         true,
		TurnDurationSeconds:     20,
		BotAutoFillDelaySeconds: 10,
	}
}

var (
	cfg      *Rules
	loadOnce sync.Once
	loadErr  error
)

// LoadRules loads the rule configuration from the given path.
func LoadRules(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read rules config: %w", err)
			return
		}

		c := DefaultRules()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal rules config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetRules returns the global rule set, falling back to the defaults when no
// config file has been loaded.
func GetRules() *Rules {
	if cfg == nil {
		d := DefaultRules()
		return &d
	}
	return cfg
}
