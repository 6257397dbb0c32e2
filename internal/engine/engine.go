package engine

import "riichi/internal/analysis"

// Engine evaluates actions against round state. It owns no state of its own
// beyond the shared decomposition tables and the injected collaborators, so
// one Engine serves any number of rounds.
type Engine struct {
	tables     *analysis.TableSet
	scorer     Scorer
	distribute Distributor
}

// NewEngine builds an engine. Nil collaborators fall back to the shared
// tables, the structural BaseScorer, and the standard payment schedule.
func NewEngine(tables *analysis.TableSet, scorer Scorer, distribute Distributor) *Engine {
	if tables == nil {
		tables = analysis.SharedTables()
	}
	if scorer == nil {
		scorer = BaseScorer{}
	}
	if distribute == nil {
		distribute = DistributePoints
	}
	return &Engine{tables: tables, scorer: scorer, distribute: distribute}
}

// Tables exposes the decomposition tables backing this engine.
func (e *Engine) Tables() *analysis.TableSet { return e.tables }

// Validate checks the acting player's action. On success the cache is updated
// with the action's speculative meld, recomputed waiting info and win
// candidates; round state is never touched.
func (e *Engine) Validate(setup *RoundSetup, state *State, action Action, cache *Cache) error {
	p, err := e.check(setup, state, action, cache)
	if err != nil {
		return err
	}
	p.apply(cache)
	return nil
}

// ValidateReaction checks one opposing player's claim on the committed
// action. An accepted ron stores its win candidates in the claimant's cache
// slot for the resolver.
func (e *Engine) ValidateReaction(setup *RoundSetup, state *State, action Action, seat int, reaction Reaction, cache *Cache) error {
	p, err := e.checkReaction(setup, state, action, seat, reaction, cache)
	if err != nil {
		return err
	}
	p.apply(cache)
	return nil
}
