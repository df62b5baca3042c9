package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/sgmahjong/server/mahjong"
)

const waitTimeout = 3 * time.Second

// fakeConn is a channel-backed Sender standing in for a websocket.
type fakeConn struct {
	mu     sync.Mutex
	ch     chan *Message
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{ch: make(chan *Message, 1024)}
}

func (f *fakeConn) SendMessage(msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrConnectionClosed
	}
	select {
	case f.ch <- msg:
		return nil
	default:
		return ErrConnectionClosed
	}
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// expect pulls messages until one of the wanted type arrives. Anything
// else in between is discarded.
func (f *fakeConn) expect(t *testing.T, msgType MessageType) *Message {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case m := <-f.ch:
			if m.Type == msgType {
				return m
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", msgType)
			return nil
		}
	}
}

// expectNone asserts that no message of the given type is already queued.
func (f *fakeConn) expectNone(t *testing.T, msgType MessageType) {
	t.Helper()
	for {
		select {
		case m := <-f.ch:
			if m.Type == msgType {
				t.Fatalf("unexpected %s message", msgType)
			}
		default:
			return
		}
	}
}

func (f *fakeConn) drain() {
	for {
		select {
		case <-f.ch:
		default:
			return
		}
	}
}

func decodeData[T any](t *testing.T, msg *Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestRoom(t *testing.T, cfg RoomConfig, clock quartz.Clock) *Room {
	t.Helper()
	r := NewRoom("test-room", cfg, testLogger(), clock, rand.New(rand.NewSource(7)), nil)
	t.Cleanup(r.Stop)
	return r
}

func joinRoom(t *testing.T, r *Room, name string) *fakeConn {
	t.Helper()
	c := newFakeConn()
	require.NoError(t, r.Join(c, name, "🀀", ""))
	return c
}

// fourHumans seats four players and starts the game with everyone ready.
func fourHumans(t *testing.T, r *Room) [4]*fakeConn {
	t.Helper()
	var conns [4]*fakeConn
	for i, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		conns[i] = joinRoom(t, r, name)
	}
	for i := 1; i < 4; i++ {
		sendReady(r, conns[i], true)
	}
	sendMsg(t, r, conns[0], MessageTypeStartGame, nil)
	for _, c := range conns {
		c.expect(t, MessageTypeGameStart)
	}
	return conns
}

func sendMsg(t *testing.T, r *Room, c *fakeConn, msgType MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	r.HandleMessage(c, msg)
}

func sendReady(r *Room, c *fakeConn, ready bool) {
	msg, _ := NewMessage(MessageTypeReady, ReadyData{IsReady: ready})
	r.HandleMessage(c, msg)
}

func sendAction(t *testing.T, r *Room, c *fakeConn, action ActionType) {
	t.Helper()
	sendMsg(t, r, c, MessageTypeAction, ActionData{Action: action})
}

func sendDiscard(t *testing.T, r *Room, c *fakeConn, tileID int) {
	t.Helper()
	sendMsg(t, r, c, MessageTypeAction, ActionData{Action: ActionDiscard, TileID: &tileID})
}

func sendChi(t *testing.T, r *Room, c *fakeConn, index *int) {
	t.Helper()
	sendMsg(t, r, c, MessageTypeAction, ActionData{Action: ActionChi, ChiIndex: index})
}

// barrier waits until the room loop has processed everything posted
// before it, fake conn messages included.
func barrier(r *Room) {
	r.do(func() {})
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

func defOf(s string) mahjong.TileDef {
	d, err := mahjong.ParseDef(s)
	if err != nil {
		panic(fmt.Sprintf("bad tile def %q: %v", s, err))
	}
	return d
}

// tilesOf builds tiles with ids base, base+1, ... so every rigged pile
// stays disjoint.
func tilesOf(base int, names ...string) []mahjong.Tile {
	out := make([]mahjong.Tile, len(names))
	for i, s := range names {
		out[i] = mahjong.Tile{ID: base + i, TileDef: defOf(s)}
	}
	return out
}

// junk13 is thirteen tiles that form no pair, no pong and no chi
// material around any discard used in these tests.
func junk13(base int) []mahjong.Tile {
	return tilesOf(base,
		"C1", "C4", "C7", "D1", "D4", "D7", "E", "S", "W", "N", "Rd", "Wd", "C2")
}
