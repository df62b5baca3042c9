package game

import (
	"github.com/sgmahjong/server/mahjong"
)

// Discard moves the named tile out of the current player's hand into
// their discard pile and marks it claimable. Returns false when the
// seat is out of turn or does not hold the tile.
func (s *State) Discard(seat, tileID int) bool {
	if s.Phase != PhasePlaying || seat != s.Current {
		return false
	}
	p := s.Players[seat]
	hand, t, ok := mahjong.RemoveTile(p.Hand, tileID)
	if !ok {
		return false
	}
	p.Hand = hand
	p.Discards = append(p.Discards, t)
	s.LastDiscard = &t
	s.LastDiscarder = seat
	s.Turn++
	for _, q := range s.Players {
		q.IsCurrentTurn = false
	}
	return true
}

// takeLastDiscard lifts the pending discard back out of the discarder's
// pile, for a claim or a discard win.
func (s *State) takeLastDiscard() (mahjong.Tile, bool) {
	if s.LastDiscard == nil || s.LastDiscarder < 0 {
		return mahjong.Tile{}, false
	}
	t := *s.LastDiscard
	d := s.Players[s.LastDiscarder]
	pile, _, ok := mahjong.RemoveTile(d.Discards, t.ID)
	if !ok {
		return mahjong.Tile{}, false
	}
	d.Discards = pile
	s.LastDiscard = nil
	return t, true
}

// ClaimChi forms a run from the pending discard and the two named hand
// tiles. Only the seat after the discarder may chi.
func (s *State) ClaimChi(seat int, pair []mahjong.Tile) bool {
	if s.Phase != PhasePlaying || s.LastDiscard == nil || len(pair) != 2 || pair[0].ID == pair[1].ID {
		return false
	}
	if (s.LastDiscarder+1)%SeatCount != seat || !s.LastDiscard.IsSuit() {
		return false
	}
	p := s.Players[seat]
	if mahjong.FindTile(p.Hand, pair[0].ID) < 0 || mahjong.FindTile(p.Hand, pair[1].ID) < 0 {
		return false
	}
	t, ok := s.takeLastDiscard()
	if !ok {
		return false
	}
	hand, a, _ := mahjong.RemoveTile(p.Hand, pair[0].ID)
	hand, b, _ := mahjong.RemoveTile(hand, pair[1].ID)
	p.Hand = hand
	p.Melds = append(p.Melds, mahjong.NewChi([]mahjong.Tile{a, b, t}))
	s.setCurrent(seat)
	return true
}

// ClaimPong forms a triplet from the pending discard and two matching
// hand tiles.
func (s *State) ClaimPong(seat int) bool {
	if s.Phase != PhasePlaying || s.LastDiscard == nil || seat == s.LastDiscarder {
		return false
	}
	p := s.Players[seat]
	pair, ok := mahjong.CanPong(p.Hand, s.LastDiscard.TileDef)
	if !ok {
		return false
	}
	t, ok := s.takeLastDiscard()
	if !ok {
		return false
	}
	hand, a, _ := mahjong.RemoveTile(p.Hand, pair[0].ID)
	hand, b, _ := mahjong.RemoveTile(hand, pair[1].ID)
	p.Hand = hand
	p.Melds = append(p.Melds, mahjong.NewPong([]mahjong.Tile{a, b, t}))
	s.setCurrent(seat)
	return true
}

// ClaimKong forms a quadruplet from the pending discard and three
// matching hand tiles. The caller draws the replacement afterwards via
// DrawReplacement.
func (s *State) ClaimKong(seat int) bool {
	if s.Phase != PhasePlaying || s.LastDiscard == nil || seat == s.LastDiscarder {
		return false
	}
	p := s.Players[seat]
	three, ok := mahjong.CanKong(p.Hand, s.LastDiscard.TileDef)
	if !ok {
		return false
	}
	t, ok := s.takeLastDiscard()
	if !ok {
		return false
	}
	hand := p.Hand
	tiles := make([]mahjong.Tile, 0, 4)
	for _, ht := range three {
		var removed mahjong.Tile
		hand, removed, _ = mahjong.RemoveTile(hand, ht.ID)
		tiles = append(tiles, removed)
	}
	p.Hand = hand
	p.Melds = append(p.Melds, mahjong.NewKong(append(tiles, t)))
	s.setCurrent(seat)
	return true
}

// ApplySelfKong commits a kong found by mahjong.SelfKongs on the current
// player's own turn: promoting an open pong with the fourth tile, or
// laying down four identical hand tiles concealed. The caller draws the
// replacement afterwards.
func (s *State) ApplySelfKong(seat int, sk mahjong.SelfKong) bool {
	if s.Phase != PhasePlaying || seat != s.Current {
		return false
	}
	p := s.Players[seat]
	if sk.Promote {
		if len(sk.Tiles) != 1 {
			return false
		}
		hand, t, ok := mahjong.RemoveTile(p.Hand, sk.Tiles[0].ID)
		if !ok {
			return false
		}
		for i := range p.Melds {
			m := &p.Melds[i]
			if m.Kind == mahjong.MeldPong && m.Def() == sk.Def {
				p.Hand = hand
				m.Kind = mahjong.MeldKong
				m.Tiles = append(m.Tiles, t)
				return true
			}
		}
		return false
	}
	if len(sk.Tiles) != 4 {
		return false
	}
	hand := p.Hand
	tiles := make([]mahjong.Tile, 0, 4)
	for _, ht := range sk.Tiles {
		var removed mahjong.Tile
		var ok bool
		hand, removed, ok = mahjong.RemoveTile(hand, ht.ID)
		if !ok {
			return false
		}
		tiles = append(tiles, removed)
	}
	p.Hand = hand
	p.Melds = append(p.Melds, mahjong.NewConcealedKong(tiles))
	return true
}

// TakeDiscardForWin moves the pending discard into the winner's hand so
// the completed hand can be scored and shown.
func (s *State) TakeDiscardForWin(seat int) bool {
	t, ok := s.takeLastDiscard()
	if !ok {
		return false
	}
	s.Players[seat].Hand = append(s.Players[seat].Hand, t)
	return true
}

// TakeRobbedTile moves the named tile out of the kong declarer's hand
// into the robber's, when a promoted kong is robbed for the win.
func (s *State) TakeRobbedTile(robber, kongSeat, tileID int) bool {
	if robber == kongSeat {
		return false
	}
	d := s.Players[kongSeat]
	hand, t, ok := mahjong.RemoveTile(d.Hand, tileID)
	if !ok {
		return false
	}
	d.Hand = hand
	s.Players[robber].Hand = append(s.Players[robber].Hand, t)
	return true
}
