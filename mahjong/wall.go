package mahjong

import (
	"math/rand"
)

// WallSize is the number of tiles in a full Singapore set:
// 108 suit tiles, 16 winds, 12 dragons and 8 unique bonus tiles.
const WallSize = 144

// AllTiles builds the full 144-tile set with sequential ids.
// Suit, wind and dragon defs appear four times each; every bonus def once.
func AllTiles() []Tile {
	tiles := make([]Tile, 0, WallSize)
	id := 0
	add := func(def TileDef, copies int) {
		for range copies {
			tiles = append(tiles, Tile{ID: id, TileDef: def})
			id++
		}
	}
	for _, s := range []Suit{Character, Bamboo, Dot} {
		for v := 1; v <= 9; v++ {
			add(SuitDef(s, v), 4)
		}
	}
	for _, w := range []Wind{East, South, West, North} {
		add(WindDef(w), 4)
	}
	for _, d := range []Dragon{RedDragon, GreenDragon, WhiteDragon} {
		add(DragonDef(d), 4)
	}
	for _, b := range []BonusKind{Flower, Animal} {
		for v := 1; v <= 4; v++ {
			add(BonusDef(b, v), 1)
		}
	}
	return tiles
}

// Wall is the shuffled draw pile. Normal turn draws come from the head;
// bonus and kong replacement draws come from the tail. Tiles keep their
// ids across both ends.
type Wall struct {
	tiles []Tile
	rng   *rand.Rand
}

// NewWall creates a full shuffled wall with explicit RNG
func NewWall(rng *rand.Rand) *Wall {
	w := &Wall{
		tiles: AllTiles(),
		rng:   rng,
	}
	w.Shuffle()
	return w
}

// NewWallFromTiles creates a wall with a fixed tile order, head first.
// Used by tests that need a rigged deal.
func NewWallFromTiles(tiles []Tile) *Wall {
	return &Wall{tiles: append([]Tile(nil), tiles...)}
}

// Shuffle restores the full set and reshuffles using Fisher-Yates
func (w *Wall) Shuffle() {
	if len(w.tiles) != WallSize {
		w.tiles = AllTiles()
	}
	for i := len(w.tiles) - 1; i > 0; i-- {
		var j int
		if w.rng != nil {
			j = w.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		w.tiles[i], w.tiles[j] = w.tiles[j], w.tiles[i]
	}
}

// DrawHead removes and returns the head tile.
// The second result is false when the wall is empty.
func (w *Wall) DrawHead() (Tile, bool) {
	if len(w.tiles) == 0 {
		return Tile{}, false
	}
	t := w.tiles[0]
	w.tiles = w.tiles[1:]
	return t, true
}

// DrawTail removes and returns the tail tile.
// The second result is false when the wall is empty.
func (w *Wall) DrawTail() (Tile, bool) {
	if len(w.tiles) == 0 {
		return Tile{}, false
	}
	t := w.tiles[len(w.tiles)-1]
	w.tiles = w.tiles[:len(w.tiles)-1]
	return t, true
}

// Remaining returns the number of undrawn tiles
func (w *Wall) Remaining() int {
	return len(w.tiles)
}
