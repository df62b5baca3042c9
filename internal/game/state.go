package game

import (
	"math/rand"

	"github.com/sgmahjong/server/mahjong"
)

// SeatCount is fixed; Singapore mahjong is a four-player game.
const SeatCount = 4

// Status tracks who is driving a seat.
type Status string

const (
	StatusHuman        Status = "human-connected"
	StatusDisconnected Status = "human-disconnected"
	StatusBot          Status = "bot"
)

// Phase is the lifecycle of a hand.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Player is one seat at the table.
type Player struct {
	Name          string
	Avatar        string
	SeatWind      mahjong.Wind
	Hand          []mahjong.Tile
	Discards      []mahjong.Tile
	Melds         []mahjong.Meld
	Bonuses       []mahjong.Tile
	Score         int
	Status        Status
	IsCurrentTurn bool
}

// IsBot reports whether the seat is policy-driven.
func (p *Player) IsBot() bool {
	return p.Status == StatusBot
}

// Connected reports whether a live human is driving the seat.
func (p *Player) Connected() bool {
	return p.Status == StatusHuman
}

// State is the canonical game state for one table. It is owned by a
// single goroutine; nothing here locks.
type State struct {
	Players       [SeatCount]*Player
	Wall          *mahjong.Wall
	Current       int
	RoundWind     mahjong.Wind
	RoundNumber   int
	Turn          int
	LastDiscard   *mahjong.Tile
	LastDiscarder int
	Phase         Phase

	rng *rand.Rand
}

// NewState seats the players with the standard opening winds (index 0 is
// East and deals first) and an east round. The rng drives wall shuffles.
func NewState(players [SeatCount]*Player, rng *rand.Rand) *State {
	winds := [SeatCount]mahjong.Wind{mahjong.East, mahjong.South, mahjong.West, mahjong.North}
	for i, p := range players {
		p.SeatWind = winds[i]
	}
	return &State{
		Players:       players,
		RoundWind:     mahjong.East,
		RoundNumber:   1,
		LastDiscarder: -1,
		Phase:         PhaseWaiting,
		rng:           rng,
	}
}

// DealerIndex returns the seat holding the east wind.
func (s *State) DealerIndex() int {
	for i, p := range s.Players {
		if p.SeatWind == mahjong.East {
			return i
		}
	}
	return 0
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player {
	return s.Players[s.Current]
}

func (s *State) setCurrent(i int) {
	s.Current = i
	for j, p := range s.Players {
		p.IsCurrentTurn = j == i
	}
}

// AdvanceTurn passes the turn to the next seat counter-clockwise.
func (s *State) AdvanceTurn() {
	s.setCurrent((s.Current + 1) % SeatCount)
}

// Rotate advances every seat wind one step and bumps the round counter.
// After the fourth hand of a wind the round wind itself advances. Called
// between hands only when the dealer did not win.
func (s *State) Rotate() {
	for _, p := range s.Players {
		p.SeatWind = p.SeatWind.Next()
	}
	s.RoundNumber++
	if s.RoundNumber > 4 {
		s.RoundNumber = 1
		s.RoundWind = s.RoundWind.Next()
	}
}

// MeldCount is the number of declared melds for a seat. Every meld,
// including a four-tile kong, displaces three tiles of hand arithmetic;
// the extra kong tile is balanced by its replacement draw.
func (s *State) MeldCount(seat int) int {
	return len(s.Players[seat].Melds)
}

// NeedsDraw reports whether the seat still has to draw this turn, judged
// purely by hand size.
func (s *State) NeedsDraw(seat int) bool {
	p := s.Players[seat]
	return len(p.Hand) == 13-3*len(p.Melds)
}
