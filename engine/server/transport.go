package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/1siamBot/tactical-command/engine/command"
)

const (
	readLimit   = 1 << 16
	pongWait    = 60 * time.Second
	pingPeriod  = 25 * time.Second
	writeWait   = 10 * time.Second
	helloWait   = 10 * time.Second
	sendBacklog = 64
)

var (
	errConnClosed = errors.New("connection closed")
	errSlowClient = errors.New("client send buffer full")
)

// Handler serves the websocket endpoint and the HTTP helpers for a room
type Handler struct {
	Room     *Room
	Log      *slog.Logger
	Upgrader websocket.Upgrader
}

// NewHandler builds the HTTP handler: /ws, /state and /healthz, served over
// HTTP/1.1 and cleartext HTTP/2
func NewHandler(room *Room, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{
		Room: room,
		Log:  log,
		Upgrader: websocket.Upgrader{
			// Local demo server; any origin may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/state", h.serveState)
	mux.HandleFunc("/healthz", h.serveHealth)
	return h2c.NewHandler(mux, &http2.Server{})
}

func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	select {
	case <-h.Room.Done():
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"stopped"}`))
	default:
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func (h *Handler) serveState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	st, err := h.Room.Snapshot(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		h.Log.Warn("write state", "error", err)
	}
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn := newWSConn(ws)
	go conn.writePump()
	defer conn.Close()

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	hello, err := readHello(ws)
	if err != nil {
		h.Log.Debug("bad hello", "remote", r.RemoteAddr, "error", err)
		return
	}
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))

	ctx := r.Context()
	reply := make(chan JoinResult, 1)
	if err := h.Room.Send(ctx, Join{Conn: conn, Name: hello.Name, Reply: reply}); err != nil {
		return
	}
	var id string
	select {
	case res := <-reply:
		id = res.ClientID
	case <-h.Room.Done():
		return
	}
	defer func() {
		_ = h.Room.Send(context.Background(), Leave{ClientID: id})
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("websocket read", "client", id, "error", err)
			}
			return
		}
		env, err := DecodeEnvelope(data)
		if err != nil || env.T != MsgCommand {
			continue
		}
		cmd, err := DecodePayload[command.Command](env)
		if err != nil {
			conn.sendError(ErrorMsg{Code: "bad_request", Message: err.Error()})
			continue
		}
		if err := h.Room.Send(ctx, Command{ClientID: id, Cmd: cmd}); err != nil {
			return
		}
	}
}

func readHello(ws *websocket.Conn) (Hello, error) {
	_, data, err := ws.ReadMessage()
	if err != nil {
		return Hello{}, err
	}
	env, err := DecodeEnvelope(data)
	if err != nil {
		return Hello{}, err
	}
	if env.T != MsgHello {
		return Hello{}, errors.New("expected hello")
	}
	if len(env.P) == 0 {
		return Hello{}, nil
	}
	return DecodePayload[Hello](env)
}

// wsConn buffers outgoing messages so a slow client never blocks the room
type wsConn struct {
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		ws:   ws,
		send: make(chan []byte, sendBacklog),
		done: make(chan struct{}),
	}
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
		return errSlowClient
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *wsConn) sendError(e ErrorMsg) {
	if b, err := Encode(MsgError, e); err == nil {
		_ = c.Send(b)
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
