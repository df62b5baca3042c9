package game

import (
	"math/rand"
	"testing"

	"github.com/sgmahjong/server/mahjong"
)

func defOf(s string) mahjong.TileDef {
	def, err := mahjong.ParseDef(s)
	if err != nil {
		panic(err)
	}
	return def
}

// tilesOf builds tiles from short forms with ids counting up from base.
func tilesOf(base int, strs ...string) []mahjong.Tile {
	out := make([]mahjong.Tile, len(strs))
	for i, s := range strs {
		out[i] = mahjong.Tile{ID: base + i, TileDef: defOf(s)}
	}
	return out
}

func testPlayers() [SeatCount]*Player {
	var players [SeatCount]*Player
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i := range players {
		players[i] = &Player{Name: names[i], Status: StatusHuman}
	}
	return players
}

// riggedState seats four players mid-hand with seat 0 to act, a fixed
// hand for seat 0 and a fixed wall remainder. Conservation does not hold
// for rigged states; only the full-deal tests check it.
func riggedState(hand, wall []mahjong.Tile) *State {
	s := NewState(testPlayers(), rand.New(rand.NewSource(1)))
	s.Phase = PhasePlaying
	s.Wall = mahjong.NewWallFromTiles(wall)
	s.Players[0].Hand = hand
	s.setCurrent(0)
	return s
}

// assertConservation checks that every tile is accounted for exactly
// once across the wall and all player piles.
func assertConservation(t *testing.T, s *State) {
	t.Helper()
	total := s.Wall.Remaining()
	seen := map[int]bool{}
	note := func(tiles []mahjong.Tile) {
		for _, tile := range tiles {
			if seen[tile.ID] {
				t.Fatalf("tile id %d appears twice", tile.ID)
			}
			seen[tile.ID] = true
			total++
		}
	}
	for _, p := range s.Players {
		note(p.Hand)
		note(p.Discards)
		note(mahjong.MeldTiles(p.Melds))
		note(p.Bonuses)
	}
	if total != mahjong.WallSize {
		t.Fatalf("tiles in circulation = %d, want %d", total, mahjong.WallSize)
	}
}

func assertNoBonusInHands(t *testing.T, s *State) {
	t.Helper()
	for i, p := range s.Players {
		for _, tile := range p.Hand {
			if tile.IsBonus() {
				t.Fatalf("player %d still holds bonus %s", i, tile)
			}
		}
	}
}
