package server

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/session"
)

type fakeConn struct {
	sendCh chan []byte
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan []byte, 512)}
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.sendCh <- cp:
	default: // test not draining; drop
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.closed.Store(true)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startRoom(t *testing.T) *Room {
	t.Helper()
	bal := config.Default()
	bal.TickInterval = 10 * time.Millisecond
	s, err := session.New(bal, session.WithSeed(1), session.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	r := NewRoom(s, 1, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-r.Done()
	})
	return r
}

func join(t *testing.T, r *Room, fc *fakeConn) string {
	t.Helper()
	reply := make(chan JoinResult, 1)
	r.Inbox <- Join{Conn: fc, Name: "test", Reply: reply}
	res := <-reply
	if res.ClientID == "" {
		t.Fatalf("expected client id, got empty")
	}
	return res.ClientID
}

// waitFor reads messages until one of type msgType satisfies match
func waitFor(t *testing.T, fc *fakeConn, msgType string, match func(Envelope) bool) Envelope {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case b := <-fc.sendCh:
			env, err := DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T == msgType && (match == nil || match(env)) {
				return env
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", msgType)
		}
	}
}

func TestJoinSendsWelcomeThenState(t *testing.T) {
	r := startRoom(t)
	fc := newFakeConn()
	id := join(t, r, fc)

	first := <-fc.sendCh
	env, err := DecodeEnvelope(first)
	if err != nil || env.T != MsgWelcome {
		t.Fatalf("first message = %s, want welcome", first)
	}
	w, err := DecodePayload[Welcome](env)
	if err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if w.ClientID != id || w.GridSize != 20 || len(w.Speeds) != 2 {
		t.Fatalf("welcome = %+v", w)
	}

	env = waitFor(t, fc, MsgState, nil)
	st, err := DecodePayload[session.State](env)
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(st.Units) != 3 || len(st.Buildings) != 2 {
		t.Fatalf("state has %d units, %d buildings", len(st.Units), len(st.Buildings))
	}
}

func TestTwoClientsGetDistinctIDs(t *testing.T) {
	r := startRoom(t)
	a := join(t, r, newFakeConn())
	b := join(t, r, newFakeConn())
	if a == b {
		t.Fatalf("expected unique client ids, got %q twice", a)
	}
}

func TestAcceptedCommandIsBroadcast(t *testing.T) {
	r := startRoom(t)
	sender, watcher := newFakeConn(), newFakeConn()
	id := join(t, r, sender)
	join(t, r, watcher)

	r.Inbox <- Command{ClientID: id, Cmd: command.Spawn(core.UnitAircraft)}

	hasAircraft := func(env Envelope) bool {
		st, err := DecodePayload[session.State](env)
		if err != nil {
			return false
		}
		for _, u := range st.Units {
			if u.Type == core.UnitAircraft {
				return st.Resources == 800
			}
		}
		return false
	}
	waitFor(t, sender, MsgState, hasAircraft)
	waitFor(t, watcher, MsgState, hasAircraft)
}

func TestRejectedCommandIsSilent(t *testing.T) {
	r := startRoom(t)
	fc := newFakeConn()
	id := join(t, r, fc)

	r.Inbox <- Command{ClientID: id, Cmd: command.Build(core.BuildingBase)}
	r.Inbox <- Command{ClientID: id, Cmd: command.SetSpeed(9)}
	// the room handles its inbox in order, so both commands are done once
	// the snapshot comes back
	st, err := r.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.Resources != 1000 || st.GameSpeed != 1 || len(st.Buildings) != 2 {
		t.Fatalf("rejected commands changed state: %+v", st)
	}
	for {
		select {
		case b := <-fc.sendCh:
			env, err := DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.T == MsgError {
				t.Fatalf("rejected command answered with %s", b)
			}
		default:
			return
		}
	}
}

func TestCommandsFromUnknownClientsIgnored(t *testing.T) {
	r := startRoom(t)
	r.Inbox <- Command{ClientID: "stranger", Cmd: command.Spawn(core.UnitTank)}
	st, err := r.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.Resources != 1000 {
		t.Fatalf("stranger's command applied: resources %d", st.Resources)
	}
}

func TestPauseStopsTicking(t *testing.T) {
	r := startRoom(t)
	fc := newFakeConn()
	id := join(t, r, fc)

	r.Inbox <- Command{ClientID: id, Cmd: command.TogglePause()}
	waitFor(t, fc, MsgState, func(env Envelope) bool {
		st, err := DecodePayload[session.State](env)
		return err == nil && st.IsPaused
	})

	ctx := context.Background()
	before, err := r.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(80 * time.Millisecond)
	after, err := r.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.Tick != before.Tick {
		t.Fatalf("ticked while paused: %d -> %d", before.Tick, after.Tick)
	}

	r.Inbox <- Command{ClientID: id, Cmd: command.TogglePause()}
	waitFor(t, fc, MsgState, func(env Envelope) bool {
		st, err := DecodePayload[session.State](env)
		return err == nil && st.Tick > after.Tick
	})
}

func TestLeaveClosesConn(t *testing.T) {
	r := startRoom(t)
	fc := newFakeConn()
	id := join(t, r, fc)

	r.Inbox <- Leave{ClientID: id}
	if _, err := r.Snapshot(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !fc.closed.Load() {
		t.Fatalf("conn not closed after leave")
	}
}

func TestStoppedRoomRefusesMessages(t *testing.T) {
	bal := config.Default()
	s, err := session.New(bal, session.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRoom(s, 1, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	fc := newFakeConn()
	go r.Run(ctx)
	join(t, r, fc)
	cancel()
	<-r.Done()

	if !fc.closed.Load() {
		t.Fatalf("client not closed on shutdown")
	}
	// Fill the buffer so Send must observe the closed room.
	for i := 0; i < cap(r.Inbox); i++ {
		r.Inbox <- Leave{}
	}
	if err := r.Send(context.Background(), Leave{}); err != ErrRoomClosed {
		t.Fatalf("Send after stop = %v, want ErrRoomClosed", err)
	}
}
