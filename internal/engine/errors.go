package engine

import "errors"

// Action-legality failures form a closed taxonomy. Each cause is surfaced to
// the caller verbatim; the orchestrator decides whether to reject the action
// or treat it as a protocol violation.
var (
	ErrTsumokiriMismatch  = errors.New("discard does not match the drawn tile")
	ErrDiscardUnderRiichi = errors.New("riichi allows discarding the drawn tile only")
	ErrSwapCall           = errors.New("discard would re-form the group just called")
	ErrTileNotInHand      = errors.New("tile not in hand")

	ErrRiichiAgain    = errors.New("riichi already declared")
	ErrRiichiPoints   = errors.New("not enough points to declare riichi")
	ErrRiichiOpenHand = errors.New("riichi requires a concealed hand")
	ErrRiichiNotReady = errors.New("hand not waiting after the riichi discard")

	ErrKanOnLastDraw  = errors.New("no replacement draw left for a quad")
	ErrKanUnderRiichi = errors.New("quad would change the riichi wait")
	ErrKanShortTiles  = errors.New("not enough tiles for the quad")
	ErrKakanNoPon     = errors.New("no matching pon to upgrade")

	ErrAbortTooFewKinds  = errors.New("fewer than nine terminal kinds in hand")
	ErrAbortWindowClosed = errors.New("nine-kinds abort only allowed on the first uncalled turn")

	ErrTsumoWrongTile   = errors.New("self-drawn win must declare the drawn tile")
	ErrTsumoNoCandidate = errors.New("no winning interpretation for the drawn tile")

	ErrRonFuriten     = errors.New("cannot claim a win while furiten")
	ErrRonNotWaiting  = errors.New("discarded tile does not complete the hand")
	ErrCallShortTiles = errors.New("hand lacks the tiles for the call")
	ErrCallShape      = errors.New("called tiles do not form the claimed group")
)
