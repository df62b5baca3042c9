// Package game implements the core Singapore mahjong game logic.
//
// The main type is State, which holds the canonical state of one table:
// four players, the wall, the current turn, and the round bookkeeping.
// State methods are pure applicators in the sense that they validate,
// mutate in place, and report success; they never perform I/O and never
// panic on bad input. Sequencing (who may act when, claim arbitration,
// timeouts) belongs to the room layer, which calls the applicators only
// after validating the move.
//
// # Deterministic Testing
//
// All randomness comes from the injected *rand.Rand:
//
//	rng := rand.New(rand.NewSource(42)) // Fixed seed
//	st := game.NewState(players, rng)
//	st.StartHand()
//
// The bot policy in Bot takes its own source so table shuffles and bot
// decisions can be seeded independently.
package game
