package mahjong

import (
	"fmt"
	"sort"
)

// TileKind discriminates the four tile families.
type TileKind string

const (
	KindSuit   TileKind = "suit"
	KindWind   TileKind = "wind"
	KindDragon TileKind = "dragon"
	KindBonus  TileKind = "bonus"
)

// Suit represents a numbered suit
type Suit string

const (
	Bamboo    Suit = "bamboo"
	Character Suit = "character"
	Dot       Suit = "dot"
)

// Wind represents a wind direction, used for both seat and round winds
type Wind string

const (
	East  Wind = "east"
	South Wind = "south"
	West  Wind = "west"
	North Wind = "north"
)

// Next returns the wind after w in rotation order (east→south→west→north→east)
func (w Wind) Next() Wind {
	switch w {
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return East
	}
}

// String returns the short display form of a wind
func (w Wind) String() string {
	switch w {
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	case North:
		return "N"
	default:
		return "?"
	}
}

// Dragon represents a dragon color
type Dragon string

const (
	RedDragon   Dragon = "red"
	GreenDragon Dragon = "green"
	WhiteDragon Dragon = "white"
)

// BonusKind represents a bonus tile family
type BonusKind string

const (
	Flower BonusKind = "flower"
	Animal BonusKind = "animal"
)

// TileDef identifies a tile face. Defs are comparable values: two tiles
// with equal defs match for pong, kong and chi purposes even though their
// ids differ.
type TileDef struct {
	Kind   TileKind  `json:"kind"`
	Suit   Suit      `json:"suit,omitempty"`
	Value  int       `json:"value,omitempty"` // 1..9 for suits, 1..4 for bonuses
	Wind   Wind      `json:"wind,omitempty"`
	Dragon Dragon    `json:"dragon,omitempty"`
	Bonus  BonusKind `json:"bonus,omitempty"`
}

// SuitDef builds a suit tile definition
func SuitDef(s Suit, value int) TileDef {
	return TileDef{Kind: KindSuit, Suit: s, Value: value}
}

// WindDef builds a wind tile definition
func WindDef(w Wind) TileDef {
	return TileDef{Kind: KindWind, Wind: w}
}

// DragonDef builds a dragon tile definition
func DragonDef(d Dragon) TileDef {
	return TileDef{Kind: KindDragon, Dragon: d}
}

// BonusDef builds a bonus tile definition
func BonusDef(b BonusKind, value int) TileDef {
	return TileDef{Kind: KindBonus, Bonus: b, Value: value}
}

// IsSuit returns true for bamboo/character/dot tiles
func (d TileDef) IsSuit() bool {
	return d.Kind == KindSuit
}

// IsHonor returns true for wind and dragon tiles
func (d TileDef) IsHonor() bool {
	return d.Kind == KindWind || d.Kind == KindDragon
}

// IsBonus returns true for flower and animal tiles
func (d TileDef) IsBonus() bool {
	return d.Kind == KindBonus
}

// IsTerminal returns true for suit tiles with value 1 or 9
func (d TileDef) IsTerminal() bool {
	return d.Kind == KindSuit && (d.Value == 1 || d.Value == 9)
}

// DefCount is the number of distinct tile definitions.
const DefCount = 42

// Order returns the canonical position of a def in display order:
// characters, bamboos, dots 1..9, then winds E,S,W,N, then dragons R,G,W,
// then flowers 1..4, then animals 1..4.
func (d TileDef) Order() int {
	switch d.Kind {
	case KindSuit:
		base := 0
		switch d.Suit {
		case Character:
			base = 0
		case Bamboo:
			base = 9
		case Dot:
			base = 18
		}
		return base + d.Value - 1
	case KindWind:
		switch d.Wind {
		case East:
			return 27
		case South:
			return 28
		case West:
			return 29
		default:
			return 30
		}
	case KindDragon:
		switch d.Dragon {
		case RedDragon:
			return 31
		case GreenDragon:
			return 32
		default:
			return 33
		}
	default:
		if d.Bonus == Flower {
			return 34 + d.Value - 1
		}
		return 38 + d.Value - 1
	}
}

// defFromOrder is the inverse of TileDef.Order
func defFromOrder(o int) TileDef {
	switch {
	case o < 9:
		return SuitDef(Character, o+1)
	case o < 18:
		return SuitDef(Bamboo, o-9+1)
	case o < 27:
		return SuitDef(Dot, o-18+1)
	case o < 31:
		return WindDef([]Wind{East, South, West, North}[o-27])
	case o < 34:
		return DragonDef([]Dragon{RedDragon, GreenDragon, WhiteDragon}[o-31])
	case o < 38:
		return BonusDef(Flower, o-34+1)
	default:
		return BonusDef(Animal, o-38+1)
	}
}

// String returns a short display form (e.g. "C5", "B1", "E", "Rd", "F2")
func (d TileDef) String() string {
	switch d.Kind {
	case KindSuit:
		switch d.Suit {
		case Character:
			return fmt.Sprintf("C%d", d.Value)
		case Bamboo:
			return fmt.Sprintf("B%d", d.Value)
		default:
			return fmt.Sprintf("D%d", d.Value)
		}
	case KindWind:
		return d.Wind.String()
	case KindDragon:
		switch d.Dragon {
		case RedDragon:
			return "Rd"
		case GreenDragon:
			return "Gd"
		default:
			return "Wd"
		}
	default:
		if d.Bonus == Flower {
			return fmt.Sprintf("F%d", d.Value)
		}
		return fmt.Sprintf("A%d", d.Value)
	}
}

// ParseDef parses the short display form produced by TileDef.String
// (e.g. "C5", "B1", "D9", "E", "Rd", "F2", "A3")
func ParseDef(s string) (TileDef, error) {
	switch s {
	case "E":
		return WindDef(East), nil
	case "S":
		return WindDef(South), nil
	case "W":
		return WindDef(West), nil
	case "N":
		return WindDef(North), nil
	case "Rd":
		return DragonDef(RedDragon), nil
	case "Gd":
		return DragonDef(GreenDragon), nil
	case "Wd":
		return DragonDef(WhiteDragon), nil
	}
	if len(s) != 2 || s[1] < '1' {
		return TileDef{}, fmt.Errorf("invalid tile %q", s)
	}
	v := int(s[1] - '0')
	switch s[0] {
	case 'C':
		if v <= 9 {
			return SuitDef(Character, v), nil
		}
	case 'B':
		if v <= 9 {
			return SuitDef(Bamboo, v), nil
		}
	case 'D':
		if v <= 9 {
			return SuitDef(Dot, v), nil
		}
	case 'F':
		if v <= 4 {
			return BonusDef(Flower, v), nil
		}
	case 'A':
		if v <= 4 {
			return BonusDef(Animal, v), nil
		}
	}
	return TileDef{}, fmt.Errorf("invalid tile %q", s)
}

// Tile is a physical tile: a stable in-game id plus a face definition.
// Ids are unique within a game so clients can animate tile continuity.
type Tile struct {
	ID int `json:"id"`
	TileDef
}

// String returns the tile face with its id (e.g. "C5#12")
func (t Tile) String() string {
	return fmt.Sprintf("%s#%d", t.TileDef, t.ID)
}

// SortTiles orders tiles in place by display order, then by id for stability
func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		oi, oj := tiles[i].Order(), tiles[j].Order()
		if oi != oj {
			return oi < oj
		}
		return tiles[i].ID < tiles[j].ID
	})
}

// FindTile returns the index of the tile with the given id, or -1
func FindTile(tiles []Tile, id int) int {
	for i, t := range tiles {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// RemoveTile removes the tile with the given id and returns it.
// The second result is false if the id is not present.
func RemoveTile(tiles []Tile, id int) ([]Tile, Tile, bool) {
	i := FindTile(tiles, id)
	if i < 0 {
		return tiles, Tile{}, false
	}
	t := tiles[i]
	out := make([]Tile, 0, len(tiles)-1)
	out = append(out, tiles[:i]...)
	out = append(out, tiles[i+1:]...)
	return out, t, true
}

// CountDef returns how many tiles in the slice carry the given def
func CountDef(tiles []Tile, def TileDef) int {
	n := 0
	for _, t := range tiles {
		if t.TileDef == def {
			n++
		}
	}
	return n
}
