package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/session"
)

func TestHealthAndState(t *testing.T) {
	r := startRoom(t)
	srv := httptest.NewServer(NewHandler(r, quietLogger()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	defer resp.Body.Close()
	var st session.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode /state: %v", err)
	}
	if st.GridSize != 20 || len(st.Units) == 0 {
		t.Fatalf("state = %+v", st)
	}
}

func TestWebsocketSession(t *testing.T) {
	r := startRoom(t)
	srv := httptest.NewServer(NewHandler(r, quietLogger()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	_ = ws.SetReadDeadline(time.Now().Add(3 * time.Second))

	write := func(typ string, payload any) {
		t.Helper()
		b, err := Encode(typ, payload)
		if err != nil {
			t.Fatal(err)
		}
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	read := func(want string, match func(Envelope) bool) Envelope {
		t.Helper()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				t.Fatalf("read waiting for %q: %v", want, err)
			}
			env, err := DecodeEnvelope(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.T == want && (match == nil || match(env)) {
				return env
			}
		}
	}

	write(MsgHello, Hello{Name: "commander"})
	welcome, err := DecodePayload[Welcome](read(MsgWelcome, nil))
	if err != nil || welcome.ClientID == "" {
		t.Fatalf("welcome = %+v, %v", welcome, err)
	}

	write(MsgCommand, command.Select("player-unit-1", false))
	read(MsgState, func(env Envelope) bool {
		st, err := DecodePayload[session.State](env)
		return err == nil && len(st.SelectedUnits) == 1 && st.SelectedUnits[0] == "player-unit-1"
	})

	write(MsgCommand, map[string]string{"type": "launch"})
	e, err := DecodePayload[ErrorMsg](read(MsgError, nil))
	if err != nil || e.Code != "bad_request" {
		t.Fatalf("error = %+v, %v", e, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := r.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u := findUnit(st, "player-unit-1"); u == nil || !u.Selected {
		t.Fatalf("selection not applied in room state")
	}
}

func findUnit(st session.State, id string) *core.Unit {
	for i := range st.Units {
		if st.Units[i].ID == id {
			return &st.Units[i]
		}
	}
	return nil
}
