package nakama

import (
	"encoding/json"
	"testing"

	"riichi/internal/app"
	"riichi/internal/domain"
	"riichi/internal/engine"
)

func TestActionFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     ActionRequest
		want    engine.Action
		wantErr bool
	}{
		{
			name: "riichi discard",
			req:  ActionRequest{Kind: "discard", Tile: "5z", IsTsumokiri: true, DeclaresRiichi: true},
			want: engine.Action{Kind: engine.ActionDiscard, Tile: domain.MustTile("5z"), IsTsumokiri: true, DeclaresRiichi: true},
		},
		{
			name: "ankan",
			req:  ActionRequest{Kind: "ankan", Tile: "1m"},
			want: engine.Action{Kind: engine.ActionAnkan, Tile: domain.MustTile("1m")},
		},
		{
			name: "tsumo",
			req:  ActionRequest{Kind: "tsumo", Tile: "9s"},
			want: engine.Action{Kind: engine.ActionTsumo, Tile: domain.MustTile("9s")},
		},
		{
			name: "abort needs no tile",
			req:  ActionRequest{Kind: "abort"},
			want: engine.Action{Kind: engine.ActionAbortNineKinds},
		},
		{
			name:    "unknown kind",
			req:     ActionRequest{Kind: "fold", Tile: "1m"},
			wantErr: true,
		},
		{
			name:    "bad tile",
			req:     ActionRequest{Kind: "discard", Tile: "10x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := actionFromRequest(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("actionFromRequest: %v", err)
			}
			if got != tt.want {
				t.Errorf("action = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReactionFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     ClaimRequest
		want    engine.Reaction
		wantErr bool
	}{
		{
			name: "pon",
			req:  ClaimRequest{Kind: "pon", Own: []string{"5s", "5s"}},
			want: engine.Reaction{Kind: engine.ReactionPon, Own: [2]domain.Tile{domain.MustTile("5s"), domain.MustTile("5s")}},
		},
		{
			name: "chii with red five",
			req:  ClaimRequest{Kind: "chii", Own: []string{"0p", "6p"}},
			want: engine.Reaction{Kind: engine.ReactionChii, Own: [2]domain.Tile{domain.MustTile("0p"), domain.MustTile("6p")}},
		},
		{
			name: "ron carries no tiles",
			req:  ClaimRequest{Kind: "ron"},
			want: engine.Reaction{Kind: engine.ReactionRon},
		},
		{
			name: "daiminkan carries no tiles",
			req:  ClaimRequest{Kind: "daiminkan"},
			want: engine.Reaction{Kind: engine.ReactionDaiminkan},
		},
		{
			name:    "chii missing tiles",
			req:     ClaimRequest{Kind: "chii", Own: []string{"4p"}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			req:     ClaimRequest{Kind: "steal"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reactionFromRequest(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("reactionFromRequest: %v", err)
			}
			if got != tt.want {
				t.Errorf("reaction = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEventToWireDiscarded(t *testing.T) {
	ev := app.Event{
		Kind: app.EventDiscarded,
		Payload: app.DiscardedPayload{
			Seat:        2,
			Tile:        domain.MustTile("7p"),
			IsTsumokiri: true,
			NextActor:   3,
		},
	}

	op, body, err := eventToWire(ev)
	if err != nil {
		t.Fatalf("eventToWire: %v", err)
	}
	if op != OpDiscarded {
		t.Errorf("opcode = %d, want %d", op, OpDiscarded)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if decoded["seat"] != float64(2) || decoded["tile"] != "7p" {
		t.Errorf("body = %v, want seat 2 discarding 7p", decoded)
	}
	if decoded["tsumokiri"] != true || decoded["next_actor"] != float64(3) {
		t.Errorf("body = %v, want tsumokiri true and next_actor 3", decoded)
	}
}

func TestEventToWireHandDealt(t *testing.T) {
	ev := app.Event{
		Kind:    app.EventHandDealt,
		Payload: app.HandDealtPayload{Seat: 1, Hand: []domain.Tile{domain.MustTile("1m"), domain.MustTile("0s")}},
		Seats:   []int{1},
	}

	op, body, err := eventToWire(ev)
	if err != nil {
		t.Fatalf("eventToWire: %v", err)
	}
	if op != OpHandDealt {
		t.Errorf("opcode = %d, want %d", op, OpHandDealt)
	}
	var decoded struct {
		Seat int      `json:"seat"`
		Hand []string `json:"hand"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if decoded.Seat != 1 || len(decoded.Hand) != 2 || decoded.Hand[1] != "0s" {
		t.Errorf("body = %+v, want seat 1 with [1m 0s]", decoded)
	}
}

func TestEventToWireRoundEnded(t *testing.T) {
	ev := app.Event{
		Kind: app.EventRoundEnded,
		Payload: app.RoundEndedPayload{
			Result: engine.RoundEndResult{
				Reason:  engine.EndTsumo,
				Deltas:  [4]int{12000, -4000, -4000, -4000},
				Next:    engine.RoundID{Wind: 0, Kyoku: 0, Honba: 1},
				Renchan: true,
				Wins: []engine.WinResult{
					{Seat: 0, Candidate: engine.Candidate{Han: 4, Fu: 30}},
				},
			},
			Points: [4]int{37000, 21000, 21000, 21000},
		},
	}

	op, body, err := eventToWire(ev)
	if err != nil {
		t.Fatalf("eventToWire: %v", err)
	}
	if op != OpRoundEnded {
		t.Errorf("opcode = %d, want %d", op, OpRoundEnded)
	}
	var decoded struct {
		Reason  string    `json:"reason"`
		Renchan bool      `json:"renchan"`
		Wins    []wireWin `json:"wins"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if decoded.Reason != engine.EndTsumo.String() || !decoded.Renchan {
		t.Errorf("body = %+v, want a renchan tsumo", decoded)
	}
	if len(decoded.Wins) != 1 || decoded.Wins[0].Han != 4 || decoded.Wins[0].Fu != 30 {
		t.Errorf("wins = %+v, want one 4 han 30 fu win", decoded.Wins)
	}
}

func TestEventToWireUnknownKind(t *testing.T) {
	if _, _, err := eventToWire(app.Event{Kind: "mystery"}); err == nil {
		t.Fatalf("expected error for unknown event kind")
	}
}
