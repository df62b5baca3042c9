package server

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgmahjong/server/mahjong"
)

// rigPlaying replaces the dealt position with a scripted one: seat 0 is
// current at the discard stage, everyone else holds thirteen tiles.
func rigPlaying(r *Room, hands [4][]mahjong.Tile, wall []mahjong.Tile) {
	r.do(func() {
		st := r.state
		for i := range hands {
			st.Players[i].Hand = hands[i]
			st.Players[i].Melds = nil
			st.Players[i].Bonuses = nil
			st.Players[i].Discards = nil
			st.Players[i].IsCurrentTurn = i == 0
		}
		st.Wall = mahjong.NewWallFromTiles(wall)
		st.Current = 0
		st.LastDiscard = nil
		st.LastDiscarder = -1
	})
}

// snapshot copies the fields a test wants to assert on off the room loop.
type roomSnapshot struct {
	current   int
	phase     string
	melds     [4][]mahjong.Meld
	hands     [4][]mahjong.Tile
	scores    [4]int
	statuses  [4]string
	remaining int
}

func snapshotRoom(r *Room) roomSnapshot {
	var snap roomSnapshot
	r.do(func() {
		st := r.state
		snap.current = st.Current
		snap.phase = string(st.Phase)
		for i, p := range st.Players {
			snap.melds[i] = append([]mahjong.Meld(nil), p.Melds...)
			snap.hands[i] = append([]mahjong.Tile(nil), p.Hand...)
			snap.scores[i] = p.Score
			snap.statuses[i] = string(p.Status)
		}
		if st.Wall != nil {
			snap.remaining = st.Wall.Remaining()
		}
	})
	return snap
}

func TestClaimPongBeatsChi(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		tilesOf(100, "B3", "B4", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N", "Rd"),
		tilesOf(200, "B5", "B5", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N", "Rd"),
		junk13(300),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendDiscard(t, r, conns[0], 50)

	w1 := decodeData[ClaimWindowData](t, conns[1].expect(t, MessageTypeClaimWindow))
	assert.Equal(t, []ActionType{ActionChi, ActionPass}, w1.AvailableActions)
	w2 := decodeData[ClaimWindowData](t, conns[2].expect(t, MessageTypeClaimWindow))
	assert.Equal(t, []ActionType{ActionPong, ActionPass}, w2.AvailableActions)
	assert.Equal(t, 15, w2.Timeout)
	conns[3].expectNone(t, MessageTypeClaimWindow)

	sendChi(t, r, conns[1], nil)
	sendAction(t, r, conns[2], ActionPong)

	// The pong claimer is told to discard, and only to discard.
	turn := decodeData[YourTurnData](t, conns[2].expect(t, MessageTypeYourTurn))
	assert.Equal(t, TurnPhaseDiscard, turn.Phase)
	assert.Equal(t, []ActionType{ActionDiscard}, turn.AvailableActions)

	snap := snapshotRoom(r)
	assert.Equal(t, 2, snap.current)
	require.Len(t, snap.melds[2], 1)
	assert.Equal(t, mahjong.MeldPong, snap.melds[2][0].Kind)
	assert.Equal(t, defOf("B5"), snap.melds[2][0].Def())
	assert.Empty(t, snap.melds[1], "losing chi must not apply")
	assert.Len(t, snap.hands[2], 11)
}

func TestClaimKongBeatsChi(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		tilesOf(100, "B3", "B4", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N", "Rd"),
		junk13(200),
		tilesOf(300, "B5", "B5", "B5", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N"),
	}, tilesOf(500, "C9", "D9", "B9"))
	for _, c := range conns {
		c.drain()
	}

	sendDiscard(t, r, conns[0], 50)
	w3 := decodeData[ClaimWindowData](t, conns[3].expect(t, MessageTypeClaimWindow))
	assert.Equal(t, []ActionType{ActionKong, ActionPong, ActionPass}, w3.AvailableActions)

	sendChi(t, r, conns[1], nil)
	sendAction(t, r, conns[3], ActionKong)
	barrier(r)

	snap := snapshotRoom(r)
	assert.Equal(t, 3, snap.current)
	require.Len(t, snap.melds[3], 1)
	assert.Equal(t, mahjong.MeldKong, snap.melds[3][0].Kind)
	require.Len(t, snap.melds[3][0].Tiles, 4)
	assert.Empty(t, snap.melds[1])

	// The replacement came off the tail of the wall.
	assert.Equal(t, 2, snap.remaining)
	assert.NotEqual(t, -1, mahjong.FindTile(snap.hands[3], 502))
	assert.Len(t, snap.hands[3], 11)
}

func TestClaimCompetingWinsGoToClosestSeat(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	winShape := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B5", "B5", "D2", "D2"}
	chiWinShape := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B4", "B6", "D2", "D2"}
	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		junk13(100),
		tilesOf(200, winShape...),
		tilesOf(300, chiWinShape...),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendDiscard(t, r, conns[0], 50)
	conns[2].expect(t, MessageTypeClaimWindow)
	conns[3].expect(t, MessageTypeClaimWindow)

	sendAction(t, r, conns[3], ActionWin)
	sendAction(t, r, conns[2], ActionWin)

	over := decodeData[RoundOverData](t, conns[0].expect(t, MessageTypeRoundOver))
	require.NotNil(t, over.WinnerIndex)
	assert.Equal(t, 2, *over.WinnerIndex, "seat 2 sits closer to the discarder than seat 3")
	require.NotNil(t, over.TaiResult)
	assert.Equal(t, 2, over.TaiResult.Tai)
	assert.Equal(t, 4, over.TaiResult.BasePoints)

	// The discarder pays double as the shooter.
	snap := snapshotRoom(r)
	assert.Equal(t, "finished", snap.phase)
	assert.Equal(t, [4]int{-8, -4, 16, -4}, snap.scores)
	conns[3].expectNone(t, MessageTypeError)
}

func TestClaimWinBelowMinimumTaiSkipped(t *testing.T) {
	cfg := DefaultRoomConfig()
	cfg.MinTai = 5
	r := newTestRoom(t, cfg, quartz.NewMock(t))
	conns := fourHumans(t, r)

	chiWinShape := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B4", "B6", "D2", "D2"}
	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		junk13(100),
		tilesOf(200, chiWinShape...),
		tilesOf(300, "B5", "B5", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N", "Rd"),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendDiscard(t, r, conns[0], 50)
	conns[2].expect(t, MessageTypeClaimWindow)
	conns[3].expect(t, MessageTypeClaimWindow)

	sendAction(t, r, conns[2], ActionWin)
	sendAction(t, r, conns[3], ActionPong)

	errData := decodeData[ErrorData](t, conns[2].expect(t, MessageTypeError))
	assert.Equal(t, "Not enough tai to win!", errData.Message)

	snap := snapshotRoom(r)
	assert.Equal(t, "playing", snap.phase, "skipped win must not end the round")
	assert.Equal(t, 3, snap.current)
	require.Len(t, snap.melds[3], 1)
	assert.Equal(t, mahjong.MeldPong, snap.melds[3][0].Kind)
}

func TestClaimWindowTimesOutToPass(t *testing.T) {
	clock := quartz.NewMock(t)
	r := newTestRoom(t, DefaultRoomConfig(), clock)
	conns := fourHumans(t, r)

	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		junk13(100),
		tilesOf(200, "B5", "B5", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N", "Rd"),
		junk13(300),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendDiscard(t, r, conns[0], 50)
	conns[2].expect(t, MessageTypeClaimWindow)
	barrier(r)

	advance(t, clock, DefaultRoomConfig().ClaimWindow)
	barrier(r)

	// Everyone passed, so the turn simply moves on.
	turn := decodeData[YourTurnData](t, conns[1].expect(t, MessageTypeYourTurn))
	assert.Equal(t, TurnPhaseDraw, turn.Phase)

	snap := snapshotRoom(r)
	assert.Equal(t, 1, snap.current)
	assert.Empty(t, snap.melds[2])
}

func TestChiAmbiguousRequestGetsOptions(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		tilesOf(100, "B3", "B4", "B6", "B7", "C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W"),
		junk13(200),
		junk13(300),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendDiscard(t, r, conns[0], 50)
	conns[1].expect(t, MessageTypeClaimWindow)

	// A bare chi with three possible shapes is ambiguous.
	sendChi(t, r, conns[1], nil)
	opts := decodeData[ChiOptionsData](t, conns[1].expect(t, MessageTypeChiOptions))
	require.Len(t, opts.Options, 3)

	idx := 1
	sendChi(t, r, conns[1], &idx)
	barrier(r)

	snap := snapshotRoom(r)
	assert.Equal(t, 1, snap.current)
	require.Len(t, snap.melds[1], 1)
	meld := snap.melds[1][0]
	assert.Equal(t, mahjong.MeldChi, meld.Kind)
	require.Len(t, meld.Tiles, 3)
	assert.Equal(t, defOf("B4"), meld.Tiles[0].TileDef)
	assert.Equal(t, defOf("B5"), meld.Tiles[1].TileDef)
	assert.Equal(t, defOf("B6"), meld.Tiles[2].TileDef)
}

func TestSelfDrawWin(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	win14 := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B5", "B5", "B5", "D2", "D2"}
	rigPlaying(r, [4][]mahjong.Tile{
		tilesOf(0, win14...),
		junk13(100),
		junk13(200),
		junk13(300),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendAction(t, r, conns[0], ActionWin)

	over := decodeData[RoundOverData](t, conns[1].expect(t, MessageTypeRoundOver))
	require.NotNil(t, over.WinnerIndex)
	assert.Equal(t, 0, *over.WinnerIndex)
	assert.Equal(t, 3, over.TaiResult.Tai, "no bonus, concealed, self-draw")
	assert.Contains(t, over.Message, "(self-draw)")

	// Everyone pays the full base on a self-draw.
	snap := snapshotRoom(r)
	assert.Equal(t, [4]int{24, -8, -8, -8}, snap.scores)
}

func TestSelfDrawWinBelowMinimumTai(t *testing.T) {
	cfg := DefaultRoomConfig()
	cfg.MinTai = 5
	r := newTestRoom(t, cfg, quartz.NewMock(t))
	conns := fourHumans(t, r)

	win14 := []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "B5", "B5", "B5", "D2", "D2"}
	rigPlaying(r, [4][]mahjong.Tile{
		tilesOf(0, win14...),
		junk13(100),
		junk13(200),
		junk13(300),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	sendAction(t, r, conns[0], ActionWin)
	errData := decodeData[ErrorData](t, conns[0].expect(t, MessageTypeError))
	assert.Equal(t, "Not enough tai to win!", errData.Message)

	snap := snapshotRoom(r)
	assert.Equal(t, "playing", snap.phase)
	assert.Equal(t, 0, snap.current, "the rejected winner keeps the turn")
}

func TestOutOfTurnActionsIgnored(t *testing.T) {
	r := newTestRoom(t, DefaultRoomConfig(), quartz.NewMock(t))
	conns := fourHumans(t, r)

	rigPlaying(r, [4][]mahjong.Tile{
		append(junk13(0), mahjong.Tile{ID: 50, TileDef: defOf("B5")}),
		junk13(100),
		junk13(200),
		junk13(300),
	}, tilesOf(500, "C9", "C9"))
	for _, c := range conns {
		c.drain()
	}

	// Seat 1 is not current and holds no claim; nothing may move.
	sendAction(t, r, conns[1], ActionDraw)
	sendDiscard(t, r, conns[1], 100)
	barrier(r)

	snap := snapshotRoom(r)
	assert.Equal(t, 0, snap.current)
	assert.Len(t, snap.hands[1], 13)
	conns[1].expectNone(t, MessageTypeError)
}
