package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcTableVoiceToken is the RPC id clients call to sign a voice-channel token for their table.
	RpcTableVoiceToken = "table_voice_token"

	// MatchNameRiichi is the authoritative match handler name registered with Nakama.
	MatchNameRiichi = "riichi_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartMatch int64 = 1
	OpAction     int64 = 2
	OpClaim      int64 = 3
	OpPassClaim  int64 = 4

	// Server -> Client events
	OpMatchState     int64 = 101
	OpRoundStarted   int64 = 102
	OpHandDealt      int64 = 103 // send privately
	OpDrawn          int64 = 104 // send privately
	OpDiscarded      int64 = 105
	OpRiichiDeclared int64 = 106
	OpMeldMade       int64 = 107
	OpDoraRevealed   int64 = 108
	OpRoundEnded     int64 = 109
	OpMatchEnded     int64 = 110
	OpClaimWindow    int64 = 111
	OpGameError      int64 = 120
)
