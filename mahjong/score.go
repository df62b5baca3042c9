package mahjong

// MaxTai caps the final tai total; base points are 2^tai.
const MaxTai = 10

// TaiPattern is one scoring pattern matched by a winning hand
type TaiPattern struct {
	Name string `json:"name"`
	Tai  int    `json:"tai"`
}

// TaiResult is the scoring breakdown for a winning hand
type TaiResult struct {
	Patterns   []TaiPattern `json:"patterns"`
	Tai        int          `json:"tai"`        // total, clamped to 1..MaxTai
	BasePoints int          `json:"basePoints"` // 2^Tai
}

// Raw returns the unclamped pattern sum. Minimum-tai checks use this
// rather than the clamped total.
func (r TaiResult) Raw() int {
	sum := 0
	for _, p := range r.Patterns {
		sum += p.Tai
	}
	return sum
}

// CalculateTai scores a winning hand. The hand must include the winning
// tile; melds are the declared sets and bonuses the revealed flowers and
// animals. Every matched pattern is additive.
func CalculateTai(hand []Tile, melds []Meld, bonuses []Tile, seatWind, roundWind Wind, selfDraw bool) TaiResult {
	patterns := make([]TaiPattern, 0, 8)
	add := func(name string, tai int) {
		patterns = append(patterns, TaiPattern{Name: name, Tai: tai})
	}

	flowers, animals := 0, 0
	flowerVals := map[int]bool{}
	animalVals := map[int]bool{}
	for _, b := range bonuses {
		switch b.Bonus {
		case Flower:
			flowers++
			flowerVals[b.Value] = true
		case Animal:
			animals++
			animalVals[b.Value] = true
		}
	}
	if flowers > 0 {
		add("Flowers", flowers)
	}
	if animals > 0 {
		add("Animals", animals)
	}
	if len(flowerVals) == 4 {
		add("All-flowers", 1)
	}
	if len(animalVals) == 4 {
		add("All-animals", 1)
	}
	if animalVals[1] && animalVals[2] {
		add("Cat-and-mouse", 1)
	}
	if animalVals[3] && animalVals[4] {
		add("Rooster-and-centipede", 1)
	}
	if selfDraw {
		add("Self-draw", 1)
	}
	if len(bonuses) == 0 {
		add("No bonus tiles", 1)
	}

	concealed := true
	for _, m := range melds {
		if !m.Concealed() {
			concealed = false
			break
		}
	}
	if concealed {
		add("Concealed hand", 1)
	}

	if len(melds) > 0 {
		allPongs := true
		for _, m := range melds {
			if !m.IsPongLike() {
				allPongs = false
				break
			}
		}
		if allPongs {
			add("All pongs", 2)
		}
	}

	dragonPongs := map[Dragon]bool{}
	windPongs := map[Wind]bool{}
	for _, m := range melds {
		if !m.IsPongLike() {
			continue
		}
		switch d := m.Def(); d.Kind {
		case KindDragon:
			dragonPongs[d.Dragon] = true
		case KindWind:
			windPongs[d.Wind] = true
		}
	}
	if n := len(dragonPongs); n > 0 {
		add("Dragon pong", n)
	}
	if windPongs[seatWind] {
		add("Seat-wind pong", 1)
	}
	if windPongs[roundWind] {
		add("Round-wind pong", 1)
	}

	all := make([]Tile, 0, len(hand)+4*len(melds))
	all = append(all, hand...)
	all = append(all, MeldTiles(melds)...)
	suits := map[Suit]bool{}
	honorTiles, suitTiles := 0, 0
	terminalsOnly := true
	for _, t := range all {
		switch {
		case t.IsSuit():
			suits[t.Suit] = true
			suitTiles++
			if !t.IsTerminal() {
				terminalsOnly = false
			}
		case t.IsHonor():
			honorTiles++
		}
	}
	if len(suits) == 1 && honorTiles == 0 {
		add("Full flush", 4)
	}
	if len(suits) == 1 && honorTiles > 0 {
		add("Half flush", 2)
	}
	if len(all) > 0 && honorTiles == len(all) {
		add("All honors", 10)
	}
	if len(all) > 0 && suitTiles == len(all) && terminalsOnly {
		add("All terminals", 10)
	}

	if len(dragonPongs) >= 3 {
		add("Big three dragons", 8)
	} else if len(dragonPongs) == 2 {
		for _, d := range []Dragon{RedDragon, GreenDragon, WhiteDragon} {
			if !dragonPongs[d] && CountDef(hand, DragonDef(d)) >= 2 {
				add("Small three dragons", 4)
				break
			}
		}
	}
	if len(windPongs) == 4 {
		add("Big four winds", 10)
	} else if len(windPongs) == 3 {
		for _, w := range []Wind{East, South, West, North} {
			if !windPongs[w] && CountDef(hand, WindDef(w)) >= 2 {
				add("Small four winds", 8)
				break
			}
		}
	}

	raw := 0
	for _, p := range patterns {
		raw += p.Tai
	}
	tai := raw
	if tai < 1 {
		tai = 1
	}
	if tai > MaxTai {
		tai = MaxTai
	}
	return TaiResult{
		Patterns:   patterns,
		Tai:        tai,
		BasePoints: 1 << tai,
	}
}

// Payment is one player's signed score delta for a hand
type Payment struct {
	PlayerIndex int `json:"playerIndex"`
	Amount      int `json:"amount"`
}

// PaymentResult lists the zero-sum score deltas for all four seats
type PaymentResult struct {
	Payments    []Payment `json:"payments"`
	WinnerTotal int       `json:"winnerTotal"`
}

// CalculatePayments resolves who pays what after a win. Every non-winner
// pays the base points; on a discard win the shooter pays double. The
// amounts always sum to zero.
func CalculatePayments(winner, shooter int, selfDraw bool, basePoints int) PaymentResult {
	payments := make([]Payment, 4)
	total := 0
	for i := range 4 {
		payments[i].PlayerIndex = i
		if i == winner {
			continue
		}
		amount := basePoints
		if !selfDraw && i == shooter {
			amount = 2 * basePoints
		}
		payments[i].Amount = -amount
		total += amount
	}
	payments[winner].Amount = total
	return PaymentResult{Payments: payments, WinnerTotal: total}
}
