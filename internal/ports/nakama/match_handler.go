package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"riichi/internal/app"
	"riichi/internal/bot"
	"riichi/internal/config"
	"riichi/internal/engine"
	"riichi/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label

	// claimWindowTicks is how long a committed discard or quad stays open to
	// claims before it resolves with whatever arrived.
	claimWindowTicks = 3

	// nextRoundDelayTicks spaces consecutive rounds so clients can present
	// the previous result.
	nextRoundDelayTicks = 5

	// matchWinds ends the match once the prevailing wind passes south, the
	// standard hanchan length.
	matchWinds = 2
)

// pendingAction is a validated action waiting out its claim window.
type pendingAction struct {
	Seat     int
	Action   engine.Action
	Deadline int64
	Claims   []engine.Claim
	Passed   [4]bool // seats that declined or already claimed
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [4]string                   `json:"seats"`      // User IDs, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the match owner
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging

	App     *app.Service   `json:"-"` // Round orchestration over the rules engine
	Round   *app.Round     `json:"-"` // Current live round (nil between rounds)
	RoundID engine.RoundID `json:"round_id"`
	Scores  [4]int         `json:"scores"`
	Pot     int            `json:"pot"` // riichi sticks carried between rounds
	Playing bool           `json:"playing"`

	Pending     *pendingAction `json:"-"` // open claim window, if any
	NextRoundAt int64          `json:"next_round_at"`

	// Turn timer bookkeeping; a stalled human turn is auto-played.
	TurnActor     int   `json:"turn_actor"`
	TurnSeq       int   `json:"turn_seq"`
	TurnStartedAt int64 `json:"turn_started_at"`

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"`
	BotMaxDelay          int                   `json:"bot_max_delay"`
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                 `json:"bot_wait_until"`
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent `json:"-"`

	Economy ports.EconomyPort `json:"-"` // Interface to Nakama wallet
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, uid := range ms.Seats {
		if uid != "" && uid == userID {
			return i
		}
	}
	return -1
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadRules("data/rules.json"); err != nil {
		logger.Warn("MatchInit: Could not load rules config: %v", err)
	}

	state := &MatchState{
		Tick:      time.Now().Unix(),
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		OwnerSeat: -1,
		Bots:      make(map[string]*bot.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
	}

	env := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["riichi_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["riichi_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["riichi_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["riichi_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = config.GetRules().BotAutoFillDelaySeconds
	}

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	// One tick per second; the claim window and turn timers count in seconds.
	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace before play starts.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if !matchState.Playing {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && !matchState.Playing {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)

		// Mid-game the empty seat is taken over by a bot so the table keeps
		// playing.
		if matchState.Playing && matchState.BotsEnabled {
			mh.seatBot(matchState, seat, logger)
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartMatch:
			mh.handleStartMatch(ctx, matchState, dispatcher, logger, msg)
		case OpAction:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg)
		case OpClaim:
			mh.handleClaim(matchState, dispatcher, logger, msg)
		case OpPassClaim:
			mh.handlePassClaim(matchState, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processPending(ctx, matchState, dispatcher, logger)
	mh.enforceTurnTimer(ctx, matchState, dispatcher, logger)
	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	if matchState.Playing && matchState.Round == nil && matchState.NextRoundAt > 0 && tick >= matchState.NextRoundAt {
		mh.startRound(matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartMatch: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Playing {
		logger.Warn("StartMatch: Match already in progress.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartMatch: User %s tried to start but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}
	if state.GetOccupiedSeatCount() < app.MinPlayersToStartGame {
		logger.Warn("StartMatch: Cannot start with %d players. Need at least %d.", state.GetOccupiedSeatCount(), app.MinPlayersToStartGame)
		return
	}

	// The table must be full; bots take the remaining seats.
	if state.GetOpenSeatsCount() > 0 {
		if !state.BotsEnabled {
			logger.Warn("StartMatch: %d seats empty and bots are disabled.", state.GetOpenSeatsCount())
			return
		}
		for i, seat := range state.Seats {
			if seat == "" {
				mh.seatBot(state, i, logger)
			}
		}
	}

	rules := config.GetRules()
	state.Playing = true
	state.RoundID = engine.RoundID{}
	state.Pot = 0
	for i := range state.Scores {
		state.Scores[i] = rules.StartPoints
	}

	mh.broadcastMatchState(state, dispatcher)
	mh.startRound(state, dispatcher, logger)

	logger.Info("StartMatch: Match started with %d players.", state.GetOccupiedSeatCount())
}

// seatBot fills the given seat with a bot from the identity pool.
func (mh *matchHandler) seatBot(state *MatchState, seat int, logger runtime.Logger) {
	identity := bot.GetBotIdentity(seat)
	botID := identity.UserID
	state.Seats[seat] = botID

	agent, err := bot.NewAgent(botID)
	if err != nil {
		logger.Error("seatBot: Failed to create bot agent for %s: %v", botID, err)
		return
	}
	state.Bots[botID] = agent
	logger.Info("seatBot: Added bot %s (%s) to seat %d", identity.Username, botID, seat)
}

func (mh *matchHandler) startRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	round, events := state.App.StartRound(config.GetRules(), state.RoundID, state.Scores, state.Pot)
	state.Round = round
	state.Pending = nil
	state.NextRoundAt = 0
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(state, dispatcher, logger, events)
	logger.Info("startRound: %s begins (dealer seat %d, honba %d)", roundName(state.RoundID), state.RoundID.Dealer(), state.RoundID.Honba)
}

func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	if state.Round == nil || state.Round.Ended() {
		logger.Warn("handleAction: No live round.")
		return
	}
	if state.Pending != nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "claims on the previous action are still open")
		return
	}

	var req ActionRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid action payload")
		return
	}
	action, err := actionFromRequest(req)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	if err := state.App.ValidateAction(state.Round, senderSeat, action); err != nil {
		logger.Warn("handleAction: User %s (seat %d) rejected: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.commitAction(ctx, state, dispatcher, logger, senderSeat, action)
}

// commitAction applies a validated action. Terminal declarations resolve
// immediately; discards and quads wait out a claim window first.
func (mh *matchHandler) commitAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, action engine.Action) {
	if action.Kind == engine.ActionTsumo || action.Kind == engine.ActionAbortNineKinds {
		events := state.App.CommitAction(state.Round, action, nil)
		mh.broadcastEvents(state, dispatcher, logger, events)
		mh.afterCommit(ctx, state, dispatcher, logger)
		return
	}
	mh.openClaimWindow(state, dispatcher, logger, seat, action)
}

func (mh *matchHandler) openClaimWindow(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, action engine.Action) {
	p := &pendingAction{Seat: seat, Action: action, Deadline: state.Tick + claimWindowTicks}
	p.Passed[seat] = true

	// Bots decide on the spot; the window stays open for humans.
	for s := 0; s < app.NumSeats; s++ {
		if s == seat {
			continue
		}
		uid := state.Seats[s]
		if uid == "" || !isBotUserId(uid) {
			continue
		}
		p.Passed[s] = true
		agent := state.Bots[uid]
		if agent == nil {
			continue
		}
		if reaction, ok := agent.React(state.App, state.Round, s, action); ok {
			p.Claims = append(p.Claims, engine.Claim{Seat: s, Reaction: reaction})
		}
	}
	state.Pending = p

	body, _ := json.Marshal(map[string]any{
		"seat":          seat,
		"kind":          action.Kind.String(),
		"tile":          action.Tile.String(),
		"deadline_tick": p.Deadline,
	})
	dispatcher.BroadcastMessage(OpClaimWindow, body, nil, nil, true)
}

func (mh *matchHandler) handleClaim(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	p := state.Pending
	if p == nil || state.Round == nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "nothing to claim")
		return
	}
	if senderSeat < 0 || senderSeat == p.Seat || p.Passed[senderSeat] {
		mh.sendError(state, dispatcher, logger, senderID, 409, "seat may not claim this action")
		return
	}

	var req ClaimRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid claim payload")
		return
	}
	reaction, err := reactionFromRequest(req)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	if err := state.App.ValidateReaction(state.Round, senderSeat, p.Action, reaction); err != nil {
		logger.Warn("handleClaim: User %s (seat %d) rejected: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	p.Claims = append(p.Claims, engine.Claim{Seat: senderSeat, Reaction: reaction})
	p.Passed[senderSeat] = true
}

func (mh *matchHandler) handlePassClaim(state *MatchState, msg runtime.MatchData) {
	senderSeat := state.seatOf(msg.GetUserId())
	if state.Pending == nil || senderSeat < 0 || senderSeat == state.Pending.Seat {
		return
	}
	state.Pending.Passed[senderSeat] = true
}

// processPending resolves the open claim window once every seat has answered
// or the deadline passed.
func (mh *matchHandler) processPending(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	p := state.Pending
	if p == nil || state.Round == nil {
		return
	}
	allAnswered := true
	for s := 0; s < app.NumSeats; s++ {
		if !p.Passed[s] {
			allAnswered = false
			break
		}
	}
	if !allAnswered && state.Tick < p.Deadline {
		return
	}

	state.Pending = nil
	events := state.App.CommitAction(state.Round, p.Action, p.Claims)
	mh.broadcastEvents(state, dispatcher, logger, events)
	mh.afterCommit(ctx, state, dispatcher, logger)
}

// afterCommit settles a finished round into match-level state and schedules
// the next round or ends the match.
func (mh *matchHandler) afterCommit(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	round := state.Round
	if round == nil || !round.Ended() {
		return
	}
	res := round.Result
	for i := range state.Scores {
		state.Scores[i] = round.Setup.Points[i] + res.Deltas[i]
	}
	state.Pot = res.Pot
	state.RoundID = res.Next
	state.Round = nil
	state.Pending = nil

	logger.Info("afterCommit: Round over (%s), scores %v, next %s", res.Reason, state.Scores, roundName(res.Next))

	if mh.matchOver(state, res) {
		mh.endMatch(ctx, state, dispatcher, logger)
		return
	}
	state.NextRoundAt = state.Tick + nextRoundDelayTicks
}

func (mh *matchHandler) matchOver(state *MatchState, res *engine.RoundEndResult) bool {
	for _, s := range state.Scores {
		if s < 0 {
			return true
		}
	}
	return res.Next.Wind >= matchWinds
}

func (mh *matchHandler) endMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	state.Playing = false
	state.NextRoundAt = 0

	// Settle score movement into wallets, skipping bots.
	if state.Economy != nil && ctx != nil {
		rules := config.GetRules()
		updates := make([]ports.WalletUpdate, 0, app.NumSeats)
		for seat, uid := range state.Seats {
			if uid == "" || isBotUserId(uid) {
				continue
			}
			updates = append(updates, ports.WalletUpdate{
				UserID: uid,
				Amount: int64(state.Scores[seat] - rules.StartPoints),
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
					"reason":   "match_settlement",
				},
			})
		}
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("endMatch: Failed to update balances: %v", err)
		}
	}

	body, _ := json.Marshal(map[string]any{"scores": state.Scores})
	dispatcher.BroadcastMessage(OpMatchEnded, body, nil, nil, true)
	mh.updateLabel(state, dispatcher, logger)
}

// enforceTurnTimer auto-plays a stalled human turn with the fallback brain.
func (mh *matchHandler) enforceTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Round == nil || state.Round.Ended() || state.Pending != nil {
		return
	}
	core := &state.Round.State.Core
	if core.Actor != state.TurnActor || core.Seq != state.TurnSeq {
		state.TurnActor, state.TurnSeq = core.Actor, core.Seq
		state.TurnStartedAt = state.Tick
		return
	}
	limit := int64(config.GetRules().TurnDurationSeconds)
	if limit <= 0 || state.Tick-state.TurnStartedAt < limit {
		return
	}
	if isBotUserId(state.Seats[core.Actor]) {
		return
	}

	var fallback bot.EasyBot
	action, err := fallback.ChooseAction(state.App, state.Round, core.Actor)
	if err != nil {
		logger.Error("enforceTurnTimer: No fallback action for seat %d: %v", core.Actor, err)
		return
	}
	// Re-validate so the round cache reflects the chosen action, not the
	// brain's probing.
	if err := state.App.ValidateAction(state.Round, core.Actor, action); err != nil {
		logger.Error("enforceTurnTimer: Fallback action rejected for seat %d: %v", core.Actor, err)
		return
	}
	logger.Info("enforceTurnTimer: Auto-playing seat %d after %d idle ticks", core.Actor, state.Tick-state.TurnStartedAt)
	mh.commitAction(ctx, state, dispatcher, logger, core.Actor, action)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill the lobby with bots when a single human has waited long enough.
	if !state.Playing {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat == "" {
						mh.seatBot(state, i, logger)
						added = true
					}
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// Bot turns: the acting seat plays after a short human-like delay.
	if state.Round == nil || state.Round.Ended() || state.Pending != nil {
		return
	}
	seat := state.Round.State.Core.Actor
	uid := state.Seats[seat]
	if !isBotUserId(uid) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s (seat %d) will act at tick %d (current %d)", uid, seat, state.BotWaitUntil, state.Tick)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[uid]
	if !exists {
		var err error
		agent, err = bot.NewAgent(uid)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[uid] = agent
	}

	action, err := agent.Act(state.App, state.Round, seat)
	if err != nil {
		logger.Error("processBots: Bot %s failed to pick a move: %v", uid, err)
		return
	}
	// Re-validate so the round cache reflects the chosen action, not the
	// brain's probing.
	if err := state.App.ValidateAction(state.Round, seat, action); err != nil {
		logger.Error("processBots: Bot %s move rejected: %v", uid, err)
		return
	}
	mh.commitAction(ctx, state, dispatcher, logger, seat, action)
}

// broadcastEvents converts round events to wire messages and dispatches them,
// honoring per-seat targeting. Events aimed only at bot seats are dropped.
func (mh *matchHandler) broadcastEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		op, body, err := eventToWire(ev)
		if err != nil {
			logger.Error("broadcastEvents: %v", err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Seats) > 0 {
			for _, seat := range ev.Seats {
				uid := state.Seats[seat]
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(op, body, recipients, nil, true)
	}
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher) {
	type playerState struct {
		UserID      string `json:"user_id"`
		Seat        int    `json:"seat"`
		IsOwner     bool   `json:"is_owner"`
		IsBot       bool   `json:"is_bot"`
		DisplayName string `json:"display_name"`
		Score       int    `json:"score"`
	}

	var players []playerState
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}
		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}
		players = append(players, playerState{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			IsBot:       isBotUserId(userId),
			DisplayName: displayName,
			Score:       state.Scores[i],
		})
	}

	body, _ := json.Marshal(map[string]any{
		"seats":      state.Seats,
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"playing":    state.Playing,
		"round":      roundToWire(state.RoundID),
		"pot":        state.Pot,
		"players":    players,
	})
	dispatcher.BroadcastMessage(OpMatchState, body, nil, nil, true)
}

// sendError sends a game error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	body, _ := json.Marshal(map[string]any{"code": code, "message": message})

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, body, []runtime.Presence{presence}, nil, true)
}

// buildLabel renders the match label the matchmaker queries against.
func buildLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Playing {
		phase = "playing"
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":                  "riichi",
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		"phase":                 phase,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func roundName(r engine.RoundID) string {
	winds := [...]string{"east", "south", "west", "north"}
	return winds[r.Wind%4] + "-" + strconv.Itoa(r.Kyoku+1)
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
