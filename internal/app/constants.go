package app

// NumSeats is the fixed table size; every round seats exactly four players.
const NumSeats = 4

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a match.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
// Bots fill the remaining seats before the first deal.
const MinPlayersToStartGame = 2
