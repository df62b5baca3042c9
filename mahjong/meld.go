package mahjong

// MeldKind discriminates the declared set types
type MeldKind string

const (
	MeldChi           MeldKind = "chi"
	MeldPong          MeldKind = "pong"
	MeldKong          MeldKind = "kong"
	MeldConcealedKong MeldKind = "concealed-kong"
)

// Meld is a declared set of 3 tiles (chi, pong) or 4 tiles (kong,
// concealed kong). A claimed or promoted kong is open; only a concealed
// kong counts as closed for the concealed-hand bonus.
type Meld struct {
	Kind  MeldKind `json:"kind"`
	Tiles []Tile   `json:"tiles"`
}

// NewChi builds a chi meld, sorting the run into value order
func NewChi(tiles []Tile) Meld {
	ts := append([]Tile(nil), tiles...)
	SortTiles(ts)
	return Meld{Kind: MeldChi, Tiles: ts}
}

// NewPong builds a pong meld
func NewPong(tiles []Tile) Meld {
	return Meld{Kind: MeldPong, Tiles: append([]Tile(nil), tiles...)}
}

// NewKong builds an open kong meld
func NewKong(tiles []Tile) Meld {
	return Meld{Kind: MeldKong, Tiles: append([]Tile(nil), tiles...)}
}

// NewConcealedKong builds a concealed kong meld
func NewConcealedKong(tiles []Tile) Meld {
	return Meld{Kind: MeldConcealedKong, Tiles: append([]Tile(nil), tiles...)}
}

// Concealed returns true if the meld counts as closed
func (m Meld) Concealed() bool {
	return m.Kind == MeldConcealedKong
}

// IsPongLike returns true for pong, kong and concealed kong
func (m Meld) IsPongLike() bool {
	return m.Kind == MeldPong || m.Kind == MeldKong || m.Kind == MeldConcealedKong
}

// Def returns the shared definition of a pong-like meld.
// For a chi it returns the lowest tile's definition.
func (m Meld) Def() TileDef {
	if len(m.Tiles) == 0 {
		return TileDef{}
	}
	return m.Tiles[0].TileDef
}

// MeldTiles flattens the tiles of all melds
func MeldTiles(melds []Meld) []Tile {
	var out []Tile
	for _, m := range melds {
		out = append(out, m.Tiles...)
	}
	return out
}
