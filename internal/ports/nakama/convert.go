package nakama

import (
	"encoding/json"
	"fmt"

	"riichi/internal/app"
	"riichi/internal/domain"
	"riichi/internal/engine"
)

// Tiles travel as shorthand strings on the wire: "5m", "7z", "0p" for a red
// five. Melds and round identities get small JSON shapes of their own.

// ActionRequest is the client payload for OpAction.
type ActionRequest struct {
	Kind           string `json:"kind"` // discard, ankan, kakan, tsumo, abort
	Tile           string `json:"tile,omitempty"`
	IsTsumokiri    bool   `json:"tsumokiri,omitempty"`
	DeclaresRiichi bool   `json:"riichi,omitempty"`
}

// ClaimRequest is the client payload for OpClaim.
type ClaimRequest struct {
	Kind string   `json:"kind"`          // chii, pon, daiminkan, ron
	Own  []string `json:"own,omitempty"` // the two hand tiles backing a chii or pon
}

func actionFromRequest(req ActionRequest) (engine.Action, error) {
	var kind engine.ActionKind
	switch req.Kind {
	case "discard":
		kind = engine.ActionDiscard
	case "ankan":
		kind = engine.ActionAnkan
	case "kakan":
		kind = engine.ActionKakan
	case "tsumo":
		kind = engine.ActionTsumo
	case "abort":
		kind = engine.ActionAbortNineKinds
	default:
		return engine.Action{}, fmt.Errorf("unknown action kind %q", req.Kind)
	}

	a := engine.Action{Kind: kind, IsTsumokiri: req.IsTsumokiri, DeclaresRiichi: req.DeclaresRiichi}
	if kind == engine.ActionAbortNineKinds {
		return a, nil
	}
	t, err := domain.ParseTile(req.Tile)
	if err != nil {
		return engine.Action{}, fmt.Errorf("action %q: %w", req.Kind, err)
	}
	a.Tile = t
	return a, nil
}

func reactionFromRequest(req ClaimRequest) (engine.Reaction, error) {
	var kind engine.ReactionKind
	needOwn := false
	switch req.Kind {
	case "chii":
		kind, needOwn = engine.ReactionChii, true
	case "pon":
		kind, needOwn = engine.ReactionPon, true
	case "daiminkan":
		kind = engine.ReactionDaiminkan
	case "ron":
		kind = engine.ReactionRon
	default:
		return engine.Reaction{}, fmt.Errorf("unknown claim kind %q", req.Kind)
	}

	re := engine.Reaction{Kind: kind}
	if needOwn {
		if len(req.Own) != 2 {
			return engine.Reaction{}, fmt.Errorf("claim %q needs exactly two hand tiles", req.Kind)
		}
		for i, s := range req.Own {
			t, err := domain.ParseTile(s)
			if err != nil {
				return engine.Reaction{}, fmt.Errorf("claim %q: %w", req.Kind, err)
			}
			re.Own[i] = t
		}
	}
	return re, nil
}

type wireMeld struct {
	Kind   string   `json:"kind"`
	Called string   `json:"called"`
	Own    []string `json:"own"`
	From   int      `json:"from"`
}

type wireRound struct {
	Wind  uint8 `json:"wind"`
	Kyoku int   `json:"kyoku"`
	Honba int   `json:"honba"`
}

type wireWin struct {
	Seat     int `json:"seat"`
	Han      int `json:"han"`
	Fu       int `json:"fu"`
	Yakuman  int `json:"yakuman"`
	DoraHits int `json:"dora_hits"`
}

func tilesToWire(tiles []domain.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

func meldToWire(m domain.Meld) wireMeld {
	return wireMeld{
		Kind:   m.Kind.String(),
		Called: m.Called.String(),
		Own:    tilesToWire(m.Own),
		From:   m.From,
	}
}

func roundToWire(r engine.RoundID) wireRound {
	return wireRound{Wind: r.Wind, Kyoku: r.Kyoku, Honba: r.Honba}
}

// eventToWire maps an app event to its opcode and JSON body.
func eventToWire(ev app.Event) (int64, []byte, error) {
	var op int64
	var body any

	switch ev.Kind {
	case app.EventRoundStarted:
		p := ev.Payload.(app.RoundStartedPayload)
		op = OpRoundStarted
		body = map[string]any{
			"round":          roundToWire(p.Round),
			"dealer":         p.Dealer,
			"dora_indicator": p.DoraIndicator.String(),
			"points":         p.Points,
			"pot":            p.Pot,
		}
	case app.EventHandDealt:
		p := ev.Payload.(app.HandDealtPayload)
		op = OpHandDealt
		body = map[string]any{"seat": p.Seat, "hand": tilesToWire(p.Hand)}
	case app.EventDrawn:
		p := ev.Payload.(app.DrawnPayload)
		op = OpDrawn
		body = map[string]any{
			"seat":           p.Seat,
			"tile":           p.Tile.String(),
			"wall_remaining": p.WallRemaining,
		}
	case app.EventDiscarded:
		p := ev.Payload.(app.DiscardedPayload)
		op = OpDiscarded
		body = map[string]any{
			"seat":       p.Seat,
			"tile":       p.Tile.String(),
			"tsumokiri":  p.IsTsumokiri,
			"riichi":     p.DeclaresRiichi,
			"next_actor": p.NextActor,
		}
	case app.EventRiichiDeclared:
		p := ev.Payload.(app.RiichiDeclaredPayload)
		op = OpRiichiDeclared
		body = map[string]any{"seat": p.Seat, "pot": p.Pot}
	case app.EventMeldMade:
		p := ev.Payload.(app.MeldMadePayload)
		op = OpMeldMade
		body = map[string]any{"seat": p.Seat, "meld": meldToWire(p.Meld)}
	case app.EventDoraRevealed:
		p := ev.Payload.(app.DoraRevealedPayload)
		op = OpDoraRevealed
		body = map[string]any{"indicator": p.Indicator.String(), "count": p.Count}
	case app.EventRoundEnded:
		p := ev.Payload.(app.RoundEndedPayload)
		wins := make([]wireWin, len(p.Result.Wins))
		for i, w := range p.Result.Wins {
			wins[i] = wireWin{
				Seat:     w.Seat,
				Han:      w.Candidate.Han,
				Fu:       w.Candidate.Fu,
				Yakuman:  w.Candidate.Yakuman,
				DoraHits: w.Candidate.DoraHits,
			}
		}
		op = OpRoundEnded
		body = map[string]any{
			"reason":  p.Result.Reason.String(),
			"deltas":  p.Result.Deltas,
			"points":  p.Points,
			"pot":     p.Result.Pot,
			"renchan": p.Result.Renchan,
			"next":    roundToWire(p.Result.Next),
			"wins":    wins,
		}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	b, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	return op, b, nil
}
