package server

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgmahjong/server/internal/game"
	"github.com/sgmahjong/server/mahjong"
)

func projectionState() *game.State {
	players := [game.SeatCount]*game.Player{
		{Name: "Alice", Avatar: "🀀", Status: game.StatusHuman, Score: 24},
		{Name: "Bot Mei Ling", Status: game.StatusBot},
		{Name: "Carol", Status: game.StatusDisconnected, Score: -8},
		{Name: "Dave", Status: game.StatusHuman},
	}
	st := game.NewState(players, rand.New(rand.NewSource(1)))
	st.Phase = game.PhasePlaying
	st.Players[0].Hand = tilesOf(0, "C9", "C1", "B5")
	st.Players[1].Hand = tilesOf(100, "D1", "D2", "D3", "D4")
	st.Players[2].Hand = tilesOf(200, "E", "E")
	st.Players[2].Melds = []mahjong.Meld{mahjong.NewPong(tilesOf(900, "Rd", "Rd", "Rd"))}
	st.Players[2].Bonuses = tilesOf(950, "F2")
	st.Players[3].Hand = tilesOf(300, "N")
	st.Wall = mahjong.NewWallFromTiles(tilesOf(500, "C9", "D9", "B9"))
	st.Current = 2
	st.Players[2].IsCurrentTurn = true
	st.Turn = 7
	st.RoundNumber = 3
	ld := mahjong.Tile{ID: 42, TileDef: defOf("B5")}
	st.LastDiscard = &ld
	st.LastDiscarder = 1
	return st
}

func TestProjectGameStateRevealsOnlyOwnHand(t *testing.T) {
	st := projectionState()
	cs := ProjectGameState(st, 0)

	assert.Equal(t, 0, cs.YourIndex)
	require.Len(t, cs.Players, 4)

	own := cs.Players[0]
	require.Len(t, own.Hand, 3)
	assert.Equal(t, defOf("C1"), own.Hand[0].TileDef, "own hand arrives in display order")
	assert.Equal(t, defOf("C9"), own.Hand[1].TileDef)
	assert.Equal(t, defOf("B5"), own.Hand[2].TileDef)
	assert.Equal(t, 3, own.HandCount)

	for i := 1; i < 4; i++ {
		assert.Empty(t, cs.Players[i].Hand, "seat %d hand must stay hidden", i)
	}
	assert.Equal(t, 4, cs.Players[1].HandCount)
	assert.Equal(t, 2, cs.Players[2].HandCount)

	// Sorting happens on a copy; the canonical hand keeps its order.
	assert.Equal(t, defOf("C9"), st.Players[0].Hand[0].TileDef)
}

func TestProjectGameStateCarriesPublicState(t *testing.T) {
	st := projectionState()
	cs := ProjectGameState(st, 1)

	assert.Equal(t, 1, cs.YourIndex)
	assert.Equal(t, 3, cs.WallRemaining)
	assert.Equal(t, 2, cs.CurrentIndex)
	assert.True(t, cs.Players[2].IsCurrentTurn)
	assert.Equal(t, game.PhasePlaying, cs.Phase)
	assert.Equal(t, 3, cs.RoundNumber)
	assert.Equal(t, 7, cs.Turn)

	require.NotNil(t, cs.LastDiscard)
	assert.Equal(t, 42, cs.LastDiscard.ID)
	require.NotNil(t, cs.LastDiscarderIndex)
	assert.Equal(t, 1, *cs.LastDiscarderIndex)

	// Melds, bonuses, scores and seat status are public.
	require.Len(t, cs.Players[2].Melds, 1)
	assert.Equal(t, mahjong.MeldPong, cs.Players[2].Melds[0].Kind)
	assert.Len(t, cs.Players[2].Bonuses, 1)
	assert.True(t, cs.Players[1].IsBot)
	assert.False(t, cs.Players[2].Connected)
	assert.True(t, cs.Players[0].Connected)
	assert.Equal(t, 24, cs.Players[0].Score)
	assert.Equal(t, mahjong.East, cs.Players[0].SeatWind)
}
