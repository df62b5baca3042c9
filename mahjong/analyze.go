package mahjong

// defCounts indexes tile counts by canonical def order for the
// decomposition search
type defCounts [DefCount]uint8

func countsOf(tiles []Tile) defCounts {
	var c defCounts
	for _, t := range tiles {
		c[t.Order()]++
	}
	return c
}

// suitRunStart reports whether order o can start a run: it must be a suit
// tile with value 1..7 so that o+1 and o+2 stay inside the same suit block.
func suitRunStart(o int) bool {
	return o < 27 && o%9 <= 6
}

// canFormSets reports whether the counts decompose entirely into triplets
// and runs. The scan always consumes the first nonzero group: any valid
// decomposition must cover that group with a triplet or a run starting at
// it (runs through it from below were consumed earlier), so failing both
// branches means no decomposition exists.
func canFormSets(c *defCounts) bool {
	first := -1
	for o := range DefCount {
		if c[o] > 0 {
			first = o
			break
		}
	}
	if first < 0 {
		return true
	}
	if c[first] >= 3 {
		c[first] -= 3
		ok := canFormSets(c)
		c[first] += 3
		if ok {
			return true
		}
	}
	if suitRunStart(first) && c[first+1] > 0 && c[first+2] > 0 {
		c[first]--
		c[first+1]--
		c[first+2]--
		ok := canFormSets(c)
		c[first]++
		c[first+1]++
		c[first+2]++
		if ok {
			return true
		}
	}
	return false
}

// CheckWin reports whether the hand together with the declared melds forms
// four sets and a pair. Every meld counts as one set regardless of size;
// the hand must therefore hold exactly 14 − 3·len(melds) tiles.
func CheckWin(hand []Tile, melds []Meld) bool {
	if len(hand) != 14-3*len(melds) {
		return false
	}
	counts := countsOf(hand)
	for o := range DefCount {
		if counts[o] < 2 {
			continue
		}
		counts[o] -= 2
		ok := canFormSets(&counts)
		counts[o] += 2
		if ok {
			return true
		}
	}
	return false
}

// CheckWinWithTile reports whether hand ⊕ tile wins. The hand is not
// modified.
func CheckWinWithTile(hand []Tile, melds []Meld, tile Tile) bool {
	combined := make([]Tile, 0, len(hand)+1)
	combined = append(combined, hand...)
	combined = append(combined, tile)
	return CheckWin(combined, melds)
}

// CanPong returns two hand tiles matching def, or false if the hand holds
// fewer than two copies.
func CanPong(hand []Tile, def TileDef) ([]Tile, bool) {
	return pickTiles(hand, def, 2)
}

// CanKong returns three hand tiles matching def, or false if the hand
// holds fewer than three copies.
func CanKong(hand []Tile, def TileDef) ([]Tile, bool) {
	return pickTiles(hand, def, 3)
}

func pickTiles(hand []Tile, def TileDef, n int) ([]Tile, bool) {
	out := make([]Tile, 0, n)
	for _, t := range hand {
		if t.TileDef == def {
			out = append(out, t)
			if len(out) == n {
				return out, true
			}
		}
	}
	return nil, false
}

// ChiOptions returns the chi completions available against a discarded
// suit tile. Chi is only legal for the player immediately after the
// discarder; the options are ordered (v−2,v−1), (v−1,v+1), (v+1,v+2) so
// that a selector index is stable. Each option holds the two hand tiles,
// always with distinct ids.
func ChiOptions(hand []Tile, def TileDef, claimer, discarder int) [][]Tile {
	if (discarder+1)%4 != claimer {
		return nil
	}
	if !def.IsSuit() {
		return nil
	}
	v := def.Value
	candidates := [][2]int{{v - 2, v - 1}, {v - 1, v + 1}, {v + 1, v + 2}}
	var options [][]Tile
	for _, c := range candidates {
		if c[0] < 1 || c[1] > 9 {
			continue
		}
		a, okA := pickTiles(hand, SuitDef(def.Suit, c[0]), 1)
		b, okB := pickTiles(hand, SuitDef(def.Suit, c[1]), 1)
		if okA && okB {
			options = append(options, []Tile{a[0], b[0]})
		}
	}
	return options
}

// SelfKong describes a kong a player can declare on their own turn:
// either promoting one of their open pongs with the matching hand tile,
// or laying down four identical hand tiles as a concealed kong.
type SelfKong struct {
	Def     TileDef `json:"def"`
	Promote bool    `json:"promote"`
	Tiles   []Tile  `json:"tiles"` // hand tiles consumed: 1 for promote, 4 for concealed
}

// SelfKongs returns all self-kongs available to a player, promotions
// first so a policy taking the first entry prefers promote.
func SelfKongs(hand []Tile, melds []Meld) []SelfKong {
	var out []SelfKong
	for _, m := range melds {
		if m.Kind != MeldPong {
			continue
		}
		if ts, ok := pickTiles(hand, m.Def(), 1); ok {
			out = append(out, SelfKong{Def: m.Def(), Promote: true, Tiles: ts})
		}
	}
	seen := map[TileDef]bool{}
	for _, t := range hand {
		if seen[t.TileDef] {
			continue
		}
		seen[t.TileDef] = true
		if ts, ok := pickTiles(hand, t.TileDef, 4); ok {
			out = append(out, SelfKong{Def: t.TileDef, Tiles: ts})
		}
	}
	return out
}
