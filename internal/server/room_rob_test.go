package server

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgmahjong/server/mahjong"
)

// rigPromote sets seat 0 up with an open pong of B5 and the fourth copy
// in hand, with seat 3 waiting on that very tile.
func rigPromote(r *Room) {
	r.do(func() {
		st := r.state
		hands := [4][]mahjong.Tile{
			tilesOf(40, "B5", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N"),
			junk13(100),
			junk13(200),
			tilesOf(300, "C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B3", "B4", "D2", "D2"),
		}
		for i := range hands {
			st.Players[i].Hand = hands[i]
			st.Players[i].Melds = nil
			st.Players[i].Bonuses = nil
			st.Players[i].Discards = nil
			st.Players[i].IsCurrentTurn = i == 0
		}
		st.Players[0].Melds = []mahjong.Meld{mahjong.NewPong(tilesOf(900, "B5", "B5", "B5"))}
		st.Wall = mahjong.NewWallFromTiles(tilesOf(500, "C9", "D9", "B9"))
		st.Current = 0
		st.LastDiscard = nil
		st.LastDiscarder = -1
	})
}

func TestRobbingTheKong(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)
	rigPromote(r)
	for _, c := range conns {
		c.drain()
	}

	sendAction(t, r, conns[0], ActionKong)

	w3 := decodeData[ClaimWindowData](t, conns[3].expect(t, MessageTypeClaimWindow))
	assert.Equal(t, []ActionType{ActionWin, ActionPass}, w3.AvailableActions)
	conns[1].expectNone(t, MessageTypeClaimWindow)

	sendAction(t, r, conns[3], ActionWin)

	over := decodeData[RoundOverData](t, conns[0].expect(t, MessageTypeRoundOver))
	require.NotNil(t, over.WinnerIndex)
	assert.Equal(t, 3, *over.WinnerIndex)
	assert.Equal(t, 2, over.TaiResult.Tai)

	// The kong declarer is the shooter and pays double.
	snap := snapshotRoom(r)
	assert.Equal(t, [4]int{-8, -4, -4, 16}, snap.scores)

	// The promoted tile moved to the robber; the pong never became a kong.
	assert.NotEqual(t, -1, mahjong.FindTile(snap.hands[3], 40))
	assert.Len(t, snap.hands[0], 10)
	require.Len(t, snap.melds[0], 1)
	assert.Equal(t, mahjong.MeldPong, snap.melds[0][0].Kind)
	assert.Len(t, snap.melds[0][0].Tiles, 3)
}

func TestKongCompletesWhenRobberPasses(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)
	rigPromote(r)
	for _, c := range conns {
		c.drain()
	}

	sendAction(t, r, conns[0], ActionKong)
	conns[3].expect(t, MessageTypeClaimWindow)
	sendAction(t, r, conns[3], ActionPass)

	// Back to the declarer with a replacement tile and a discard to make.
	turn := decodeData[YourTurnData](t, conns[0].expect(t, MessageTypeYourTurn))
	assert.Equal(t, TurnPhaseDiscard, turn.Phase)

	snap := snapshotRoom(r)
	assert.Equal(t, "playing", snap.phase)
	assert.Equal(t, 0, snap.current)
	require.Len(t, snap.melds[0], 1)
	assert.Equal(t, mahjong.MeldKong, snap.melds[0][0].Kind)
	assert.Len(t, snap.melds[0][0].Tiles, 4)

	// The replacement came from the wall tail; the promoted copy is gone
	// from the hand.
	assert.Equal(t, -1, mahjong.FindTile(snap.hands[0], 40))
	assert.NotEqual(t, -1, mahjong.FindTile(snap.hands[0], 502))
	assert.Len(t, snap.hands[0], 11)
	assert.Equal(t, 2, snap.remaining)
}

func TestConcealedKongCannotBeRobbed(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	rigPlaying(r, [4][]mahjong.Tile{
		tilesOf(40, "B5", "B5", "B5", "B5", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N"),
		junk13(100),
		junk13(200),
		tilesOf(300, "C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B3", "B4", "D2", "D2"),
	}, tilesOf(500, "C9", "D9", "B9"))
	for _, c := range conns {
		c.drain()
	}

	sendAction(t, r, conns[0], ActionKong)
	barrier(r)

	// No window opens; the kong commits straight away.
	conns[3].expectNone(t, MessageTypeClaimWindow)

	snap := snapshotRoom(r)
	assert.Equal(t, "playing", snap.phase)
	require.Len(t, snap.melds[0], 1)
	assert.Equal(t, mahjong.MeldConcealedKong, snap.melds[0][0].Kind)
	assert.Len(t, snap.hands[0], 11)
}
