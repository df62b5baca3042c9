package mahjong

import (
	"testing"
)

func TestCalculateTai(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		hand      []string
		melds     []Meld
		bonuses   []string
		seatWind  Wind
		roundWind Wind
		selfDraw  bool
		patterns  []TaiPattern
		raw       int
		tai       int
		base      int
	}{
		{
			name:      "concealed self draw",
			hand:      []string{"C1", "C2", "C3", "B4", "B5", "B6", "D7", "D8", "D9", "E", "E", "E", "Rd", "Rd"},
			seatWind:  South,
			roundWind: East,
			selfDraw:  true,
			patterns: []TaiPattern{
				{Name: "Self-draw", Tai: 1},
				{Name: "No bonus tiles", Tai: 1},
				{Name: "Concealed hand", Tai: 1},
			},
			raw: 3, tai: 3, base: 8,
		},
		{
			name:      "flowers animals and cat and mouse",
			hand:      []string{"C1", "C2", "C3", "D4", "D5", "D6", "B7", "B8", "B9", "Wd", "Wd", "Wd", "E", "E"},
			bonuses:   []string{"F1", "F2", "A1", "A2"},
			seatWind:  East,
			roundWind: South,
			patterns: []TaiPattern{
				{Name: "Flowers", Tai: 2},
				{Name: "Animals", Tai: 2},
				{Name: "Cat-and-mouse", Tai: 1},
				{Name: "Concealed hand", Tai: 1},
			},
			raw: 6, tai: 6, base: 64,
		},
		{
			name:      "seat and round wind pong both score",
			hand:      []string{"C1", "C2", "C3", "C4", "C5", "C6", "N", "N"},
			melds:     []Meld{meldOf(MeldPong, "Rd", "Rd", "Rd"), meldOf(MeldPong, "E", "E", "E")},
			seatWind:  East,
			roundWind: East,
			patterns: []TaiPattern{
				{Name: "No bonus tiles", Tai: 1},
				{Name: "All pongs", Tai: 2},
				{Name: "Dragon pong", Tai: 1},
				{Name: "Seat-wind pong", Tai: 1},
				{Name: "Round-wind pong", Tai: 1},
			},
			raw: 6, tai: 6, base: 64,
		},
		{
			name:      "open chi blocks all pongs and concealed",
			hand:      []string{"B4", "B5", "B6", "B7", "B8", "B9", "Gd", "Gd", "Gd", "E", "E"},
			melds:     []Meld{meldOf(MeldChi, "B1", "B2", "B3")},
			bonuses:   []string{"F3"},
			seatWind:  West,
			roundWind: West,
			patterns: []TaiPattern{
				{Name: "Flowers", Tai: 1},
				{Name: "Half flush", Tai: 2},
			},
			raw: 3, tai: 3, base: 8,
		},
		{
			name:      "full flush self draw",
			hand:      []string{"C1", "C1", "C1", "C5", "C6", "C7", "C7", "C8", "C9", "C9", "C9"},
			melds:     []Meld{meldOf(MeldChi, "C2", "C3", "C4")},
			seatWind:  North,
			roundWind: East,
			selfDraw:  true,
			patterns: []TaiPattern{
				{Name: "Self-draw", Tai: 1},
				{Name: "No bonus tiles", Tai: 1},
				{Name: "Full flush", Tai: 4},
			},
			raw: 6, tai: 6, base: 64,
		},
		{
			name:      "all honors with small four winds clamps at max",
			hand:      []string{"N", "N", "N", "Gd", "Gd"},
			melds:     []Meld{meldOf(MeldPong, "E", "E", "E"), meldOf(MeldPong, "S", "S", "S"), meldOf(MeldPong, "W", "W", "W")},
			seatWind:  East,
			roundWind: East,
			patterns: []TaiPattern{
				{Name: "No bonus tiles", Tai: 1},
				{Name: "All pongs", Tai: 2},
				{Name: "Seat-wind pong", Tai: 1},
				{Name: "Round-wind pong", Tai: 1},
				{Name: "All honors", Tai: 10},
				{Name: "Small four winds", Tai: 8},
			},
			raw: 23, tai: 10, base: 1024,
		},
		{
			name:      "big three dragons",
			hand:      []string{"C2", "C3", "C4", "D9", "D9"},
			melds:     []Meld{meldOf(MeldPong, "Rd", "Rd", "Rd"), meldOf(MeldPong, "Gd", "Gd", "Gd"), meldOf(MeldKong, "Wd", "Wd", "Wd", "Wd")},
			bonuses:   []string{"A3", "A4"},
			seatWind:  South,
			roundWind: West,
			patterns: []TaiPattern{
				{Name: "Animals", Tai: 2},
				{Name: "Rooster-and-centipede", Tai: 1},
				{Name: "All pongs", Tai: 2},
				{Name: "Dragon pong", Tai: 3},
				{Name: "Big three dragons", Tai: 8},
			},
			raw: 16, tai: 10, base: 1024,
		},
		{
			name:      "small three dragons needs the pair in hand",
			hand:      []string{"Wd", "Wd", "C1", "C2", "C3", "B5", "B6", "B7"},
			melds:     []Meld{meldOf(MeldPong, "Rd", "Rd", "Rd"), meldOf(MeldPong, "Gd", "Gd", "Gd")},
			seatWind:  East,
			roundWind: South,
			patterns: []TaiPattern{
				{Name: "No bonus tiles", Tai: 1},
				{Name: "All pongs", Tai: 2},
				{Name: "Dragon pong", Tai: 2},
				{Name: "Small three dragons", Tai: 4},
			},
			raw: 9, tai: 9, base: 512,
		},
		{
			name:      "all terminals",
			hand:      []string{"D1", "D1", "D1", "B9", "B9"},
			melds:     []Meld{meldOf(MeldPong, "C1", "C1", "C1"), meldOf(MeldPong, "C9", "C9", "C9"), meldOf(MeldPong, "B1", "B1", "B1")},
			seatWind:  East,
			roundWind: East,
			patterns: []TaiPattern{
				{Name: "No bonus tiles", Tai: 1},
				{Name: "All pongs", Tai: 2},
				{Name: "All terminals", Tai: 10},
			},
			raw: 13, tai: 10, base: 1024,
		},
		{
			name:      "every bonus revealed",
			hand:      []string{"C1", "C2", "C3", "B4", "B5", "B6", "D7", "D8", "D9", "E", "E", "E", "Rd", "Rd"},
			bonuses:   []string{"F1", "F2", "F3", "F4", "A1", "A2", "A3", "A4"},
			seatWind:  East,
			roundWind: East,
			selfDraw:  true,
			patterns: []TaiPattern{
				{Name: "Flowers", Tai: 4},
				{Name: "Animals", Tai: 4},
				{Name: "All-flowers", Tai: 1},
				{Name: "All-animals", Tai: 1},
				{Name: "Cat-and-mouse", Tai: 1},
				{Name: "Rooster-and-centipede", Tai: 1},
				{Name: "Self-draw", Tai: 1},
				{Name: "Concealed hand", Tai: 1},
			},
			raw: 14, tai: 10, base: 1024,
		},
		{
			name:      "single flower open hand scores one",
			hand:      []string{"C1", "C2", "C3", "D4", "D5", "D6", "B2", "B3", "B4", "E", "E"},
			melds:     []Meld{meldOf(MeldChi, "C7", "C8", "C9")},
			bonuses:   []string{"F1"},
			seatWind:  South,
			roundWind: East,
			patterns: []TaiPattern{
				{Name: "Flowers", Tai: 1},
			},
			raw: 1, tai: 1, base: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := CalculateTai(handOf(tt.hand...), tt.melds, handOf(tt.bonuses...), tt.seatWind, tt.roundWind, tt.selfDraw)
			if len(res.Patterns) != len(tt.patterns) {
				t.Fatalf("got patterns %v, want %v", res.Patterns, tt.patterns)
			}
			for i, p := range res.Patterns {
				if p != tt.patterns[i] {
					t.Errorf("pattern %d = %+v, want %+v", i, p, tt.patterns[i])
				}
			}
			if res.Raw() != tt.raw {
				t.Errorf("raw = %d, want %d", res.Raw(), tt.raw)
			}
			if res.Tai != tt.tai {
				t.Errorf("tai = %d, want %d", res.Tai, tt.tai)
			}
			if res.BasePoints != tt.base {
				t.Errorf("base points = %d, want %d", res.BasePoints, tt.base)
			}
		})
	}
}

func TestCalculateTaiRepeatable(t *testing.T) {
	t.Parallel()
	hand := handOf("C1", "C2", "C3", "B4", "B5", "B6", "D7", "D8", "D9", "E", "E", "E", "Rd", "Rd")
	bonuses := handOf("F1", "A2")
	first := CalculateTai(hand, nil, bonuses, East, East, true)
	second := CalculateTai(hand, nil, bonuses, East, East, true)
	if len(first.Patterns) != len(second.Patterns) {
		t.Fatalf("breakdown changed between calls: %v vs %v", first.Patterns, second.Patterns)
	}
	for i := range first.Patterns {
		if first.Patterns[i] != second.Patterns[i] {
			t.Errorf("pattern %d changed between calls: %+v vs %+v", i, first.Patterns[i], second.Patterns[i])
		}
	}
	if first.Tai != second.Tai || first.BasePoints != second.BasePoints {
		t.Errorf("totals changed between calls: %d/%d vs %d/%d", first.Tai, first.BasePoints, second.Tai, second.BasePoints)
	}
}

func TestCalculatePayments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		winner   int
		shooter  int
		selfDraw bool
		base     int
		amounts  [4]int
		total    int
	}{
		{
			name:   "discard win shooter pays double",
			winner: 2, shooter: 0, base: 4,
			amounts: [4]int{-8, -4, 16, -4},
			total:   16,
		},
		{
			name:   "self draw splits evenly",
			winner: 1, shooter: -1, selfDraw: true, base: 8,
			amounts: [4]int{-8, 24, -8, -8},
			total:   24,
		},
		{
			name:   "dealer shoots dealer pays double",
			winner: 3, shooter: 1, base: 2,
			amounts: [4]int{-2, -4, -2, 8},
			total:   8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := CalculatePayments(tt.winner, tt.shooter, tt.selfDraw, tt.base)
			if len(res.Payments) != 4 {
				t.Fatalf("got %d payments, want 4", len(res.Payments))
			}
			sum := 0
			for i, p := range res.Payments {
				if p.PlayerIndex != i {
					t.Errorf("payment %d has player index %d", i, p.PlayerIndex)
				}
				if p.Amount != tt.amounts[i] {
					t.Errorf("player %d amount = %d, want %d", i, p.Amount, tt.amounts[i])
				}
				sum += p.Amount
			}
			if sum != 0 {
				t.Errorf("payments sum to %d, want 0", sum)
			}
			if res.WinnerTotal != tt.total {
				t.Errorf("winner total = %d, want %d", res.WinnerTotal, tt.total)
			}
		})
	}
}
