package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/session"
)

// ErrRoomClosed is returned when sending to a room that has stopped
var ErrRoomClosed = errors.New("room closed")

// Conn is a client connection as seen by the room
type Conn interface {
	Send([]byte) error
	Close() error
}

// Join registers a connection after its hello
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	ClientID string
}

// Leave is issued on disconnect
type Leave struct {
	ClientID string
}

// Command carries a player command from a client
type Command struct {
	ClientID string
	Cmd      command.Command
}

// SnapshotRequest asks for a copy of the current state
type SnapshotRequest struct {
	Reply chan<- session.State
}

type client struct {
	conn Conn
	name string
}

// Room owns a session. All access to the session happens on the goroutine
// running Run.
type Room struct {
	Inbox chan any

	session        *session.Session
	broadcastEvery uint64
	clients        map[string]*client
	log            *slog.Logger
	done           chan struct{}
}

// NewRoom creates a room around s, broadcasting state every broadcastEvery
// ticks
func NewRoom(s *session.Session, broadcastEvery int, log *slog.Logger) *Room {
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Room{
		Inbox:          make(chan any, 256),
		session:        s,
		broadcastEvery: uint64(broadcastEvery),
		clients:        make(map[string]*client),
		log:            log,
		done:           make(chan struct{}),
	}
}

// Done is closed once Run returns
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// NumClients returns the number of connected clients. Only call from the room
// goroutine or after Run has returned.
func (r *Room) NumClients() int {
	return len(r.clients)
}

// Send delivers a message to the room, giving up when ctx ends or the room stops
func (r *Room) Send(ctx context.Context, msg any) error {
	select {
	case r.Inbox <- msg:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot asks the room for the current state
func (r *Room) Snapshot(ctx context.Context) (session.State, error) {
	reply := make(chan session.State, 1)
	if err := r.Send(ctx, SnapshotRequest{Reply: reply}); err != nil {
		return session.State{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-r.done:
		return session.State{}, ErrRoomClosed
	case <-ctx.Done():
		return session.State{}, ctx.Err()
	}
}

// Run drives the session until ctx is cancelled. The tick timer follows the
// game speed and stops while the game is paused.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	arm := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
		if r.session.World.Paused {
			return
		}
		ticker = time.NewTicker(r.session.TickInterval())
		tickC = ticker.C
	}
	arm()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		r.closeAll()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.Inbox:
			paused, interval := r.session.World.Paused, r.session.TickInterval()
			r.handle(msg)
			if r.session.World.Paused != paused || r.session.TickInterval() != interval {
				arm()
			}
		case <-tickC:
			if !r.session.Tick() {
				continue
			}
			if r.session.World.TickCount%r.broadcastEvery == 0 {
				r.broadcastState()
			}
		}
	}
}

func (r *Room) handle(msg any) {
	switch m := msg.(type) {
	case Join:
		id := uuid.New().String()
		r.clients[id] = &client{conn: m.Conn, name: m.Name}
		r.log.Info("client joined", "client", id, "name", m.Name, "clients", len(r.clients))
		bal := r.session.Balance
		welcome := Welcome{
			ClientID:       id,
			GridSize:       bal.GridSize,
			TickIntervalMs: bal.TickInterval.Milliseconds(),
			Speeds:         bal.Speeds,
		}
		if m.Reply != nil {
			m.Reply <- JoinResult{ClientID: id}
		}
		r.sendTo(id, MsgWelcome, welcome)
		r.sendTo(id, MsgState, r.session.Snapshot())
	case Leave:
		r.removeClient(m.ClientID)
	case Command:
		if _, ok := r.clients[m.ClientID]; !ok {
			return
		}
		// rejected actions are logged by the session and otherwise ignored
		if err := r.session.Apply(m.Cmd); err != nil {
			return
		}
		r.broadcastState()
	case SnapshotRequest:
		m.Reply <- r.session.Snapshot()
	default:
		r.log.Warn("room: unknown message", "type", fmt.Sprintf("%T", msg))
	}
}

func (r *Room) sendTo(id, t string, payload any) {
	c, ok := r.clients[id]
	if !ok {
		return
	}
	b, err := Encode(t, payload)
	if err != nil {
		r.log.Error("encode message", "type", t, "error", err)
		return
	}
	if err := c.conn.Send(b); err != nil {
		r.log.Warn("send failed, dropping client", "client", id, "error", err)
		r.removeClient(id)
	}
}

func (r *Room) broadcastState() {
	b, err := Encode(MsgState, r.session.Snapshot())
	if err != nil {
		r.log.Error("encode state", "error", err)
		return
	}
	var failed []string
	for id, c := range r.clients {
		if err := c.conn.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.log.Warn("broadcast failed, dropping client", "client", id)
		r.removeClient(id)
	}
}

func (r *Room) removeClient(id string) {
	c, ok := r.clients[id]
	if !ok {
		return
	}
	_ = c.conn.Close()
	delete(r.clients, id)
	r.log.Info("client left", "client", id, "clients", len(r.clients))
}

func (r *Room) closeAll() {
	for id := range r.clients {
		r.removeClient(id)
	}
}
