package game

import (
	"github.com/sgmahjong/server/mahjong"
)

// StartHand shuffles a fresh wall, clears per-hand player state, deals
// 13 tiles to every seat plus a 14th to the dealer, and replaces bonus
// tiles from the tail until no hand holds one. Returns false if the wall
// exhausts during the deal, which voids the hand.
func (s *State) StartHand() bool {
	return s.startHandWith(mahjong.NewWall(s.rng))
}

func (s *State) startHandWith(wall *mahjong.Wall) bool {
	s.Wall = wall
	for _, p := range s.Players {
		p.Hand = nil
		p.Discards = nil
		p.Melds = nil
		p.Bonuses = nil
		p.IsCurrentTurn = false
	}
	s.LastDiscard = nil
	s.LastDiscarder = -1
	s.Turn = 0
	s.Phase = PhasePlaying

	dealer := s.DealerIndex()
	for range 13 {
		for off := range SeatCount {
			seat := (dealer + off) % SeatCount
			t, ok := s.Wall.DrawHead()
			if !ok {
				return false
			}
			s.Players[seat].Hand = append(s.Players[seat].Hand, t)
		}
	}
	t, ok := s.Wall.DrawHead()
	if !ok {
		return false
	}
	s.Players[dealer].Hand = append(s.Players[dealer].Hand, t)

	if !s.replaceBonuses() {
		return false
	}
	s.setCurrent(dealer)
	return true
}

// replaceBonuses moves every bonus tile out of the dealt hands into the
// owner's revealed pile, refilling from the tail. Replacements can
// themselves be bonuses, so it loops to a fixed point.
func (s *State) replaceBonuses() bool {
	for {
		moved := false
		for _, p := range s.Players {
			for i := 0; i < len(p.Hand); i++ {
				if !p.Hand[i].IsBonus() {
					continue
				}
				p.Bonuses = append(p.Bonuses, p.Hand[i])
				t, ok := s.Wall.DrawTail()
				if !ok {
					p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
					return false
				}
				p.Hand[i] = t
				moved = true
			}
		}
		if !moved {
			return true
		}
	}
}

// Draw takes the current player's turn tile from the head of the wall.
// Any bonus drawn is revealed and replaced from the tail until a
// non-bonus tile joins the hand. Returns that tile, or false if the wall
// ran out first.
func (s *State) Draw(seat int) (mahjong.Tile, bool) {
	if s.Phase != PhasePlaying || seat != s.Current {
		return mahjong.Tile{}, false
	}
	return s.drawInto(seat, true)
}

// DrawReplacement draws from the tail after a kong, with the same bonus
// chain as a normal draw.
func (s *State) DrawReplacement(seat int) (mahjong.Tile, bool) {
	if s.Phase != PhasePlaying {
		return mahjong.Tile{}, false
	}
	return s.drawInto(seat, false)
}

func (s *State) drawInto(seat int, fromHead bool) (mahjong.Tile, bool) {
	p := s.Players[seat]
	draw := s.Wall.DrawTail
	if fromHead {
		draw = s.Wall.DrawHead
	}
	t, ok := draw()
	for ok && t.IsBonus() {
		p.Bonuses = append(p.Bonuses, t)
		t, ok = s.Wall.DrawTail()
	}
	if !ok {
		return mahjong.Tile{}, false
	}
	p.Hand = append(p.Hand, t)
	return t, true
}
