package server

import (
	"github.com/sgmahjong/server/internal/game"
	"github.com/sgmahjong/server/mahjong"
)

// LobbySeat is one occupied seat in the pre-game roster.
type LobbySeat struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Ready  bool   `json:"ready"`
	IsBot  bool   `json:"isBot"`
}

// ClientRoom is the lobby view for one recipient. The reconnect token is
// private to that recipient; it never appears in another player's copy.
type ClientRoom struct {
	ID             string      `json:"id"`
	Seats          []LobbySeat `json:"seats"`
	HostIndex      int         `json:"hostIndex"`
	YourIndex      int         `json:"yourIndex"`
	ReconnectToken string      `json:"reconnectToken,omitempty"`
	InGame         bool        `json:"inGame"`
}

// ClientPlayer is one seat as a given viewer sees it. Hand is populated
// only for the viewer's own seat; everyone else gets a count.
type ClientPlayer struct {
	Name          string         `json:"name"`
	Avatar        string         `json:"avatar"`
	SeatWind      mahjong.Wind   `json:"seatWind"`
	HandCount     int            `json:"handCount"`
	Hand          []mahjong.Tile `json:"hand,omitempty"`
	Discards      []mahjong.Tile `json:"discards"`
	Melds         []mahjong.Meld `json:"melds"`
	Bonuses       []mahjong.Tile `json:"bonuses"`
	Score         int            `json:"score"`
	IsBot         bool           `json:"isBot"`
	Connected     bool           `json:"connected"`
	IsCurrentTurn bool           `json:"isCurrentTurn"`
}

// ClientGameState is the per-player filtered game state.
type ClientGameState struct {
	Players            []ClientPlayer `json:"players"`
	YourIndex          int            `json:"yourIndex"`
	WallRemaining      int            `json:"wallRemaining"`
	CurrentIndex       int            `json:"currentIndex"`
	RoundWind          mahjong.Wind   `json:"roundWind"`
	RoundNumber        int            `json:"roundNumber"`
	Turn               int            `json:"turn"`
	LastDiscard        *mahjong.Tile  `json:"lastDiscard,omitempty"`
	LastDiscarderIndex *int           `json:"lastDiscarderIndex,omitempty"`
	Phase              game.Phase     `json:"phase"`
}

// ProjectGameState filters the canonical state down to what the viewer
// may see. The viewer's own hand comes back sorted for display; other
// hands are elided to counts.
func ProjectGameState(s *game.State, viewer int) ClientGameState {
	players := make([]ClientPlayer, game.SeatCount)
	for i, p := range s.Players {
		cp := ClientPlayer{
			Name:          p.Name,
			Avatar:        p.Avatar,
			SeatWind:      p.SeatWind,
			HandCount:     len(p.Hand),
			Discards:      p.Discards,
			Melds:         p.Melds,
			Bonuses:       p.Bonuses,
			Score:         p.Score,
			IsBot:         p.IsBot(),
			Connected:     p.Connected(),
			IsCurrentTurn: p.IsCurrentTurn,
		}
		if i == viewer {
			hand := make([]mahjong.Tile, len(p.Hand))
			copy(hand, p.Hand)
			mahjong.SortTiles(hand)
			cp.Hand = hand
		}
		players[i] = cp
	}

	remaining := 0
	if s.Wall != nil {
		remaining = s.Wall.Remaining()
	}
	cs := ClientGameState{
		Players:       players,
		YourIndex:     viewer,
		WallRemaining: remaining,
		CurrentIndex:  s.Current,
		RoundWind:     s.RoundWind,
		RoundNumber:   s.RoundNumber,
		Turn:          s.Turn,
		Phase:         s.Phase,
	}
	if s.LastDiscard != nil {
		t := *s.LastDiscard
		idx := s.LastDiscarder
		cs.LastDiscard = &t
		cs.LastDiscarderIndex = &idx
	}
	return cs
}
