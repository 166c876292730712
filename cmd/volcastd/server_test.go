package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// End-to-end tests over a real websocket: httptest server + gorilla dialer,
// with the fake mixer behind the controller.

type wsFixture struct {
	url     string
	backend *fakeBackend
	hub     *Hub
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	backend := &fakeBackend{volume: 40, muted: false}
	ctl := newTestController(backend)

	hub := NewHub(slog.Default(), HubConfig{
		SendBuf:      8,
		BroadcastBuf: 8,
		Snapshot:     ctl.SnapshotFrame,
	})
	ctl.AttachHub(hub)
	go hub.Run(ctx)

	srv := NewServer(0, hub, ctl, slog.Default())
	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	t.Cleanup(ts.Close)

	return &wsFixture{
		url:     "ws" + strings.TrimPrefix(ts.URL, "http"),
		backend: backend,
		hub:     hub,
	}
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn, timeout time.Duration) VolumeState {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read state frame: %v", err)
	}
	var st VolumeState
	if err := json.Unmarshal(msg, &st); err != nil {
		t.Fatalf("decode state frame %q: %v", string(msg), err)
	}
	return st
}

func readError(t *testing.T, conn *websocket.Conn, timeout time.Duration) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	var er errorReply
	if err := json.Unmarshal(msg, &er); err != nil || er.Error == "" {
		t.Fatalf("expected error frame, got %q", string(msg))
	}
	return er.Error
}

func expectSilence(t *testing.T, conn *websocket.Conn, wait time.Duration) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(wait))
	_, msg, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("unexpected frame: %s", string(msg))
	}
}

func writeRequest(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write %q: %v", raw, err)
	}
}

func TestServer_ConnectPushesInitialState(t *testing.T) {
	fx := newWSFixture(t)

	conn := dialWS(t, fx.url)
	st := readState(t, conn, time.Second)
	if st.Volume != 40 || st.Muted {
		t.Fatalf("initial state %+v, want volume=40 muted=false", st)
	}
	if st.Device != "Fake Output" {
		t.Fatalf("initial device %q, want %q", st.Device, "Fake Output")
	}
}

func TestServer_SetVolumeBroadcastsToAllClients(t *testing.T) {
	fx := newWSFixture(t)

	c1 := dialWS(t, fx.url)
	readState(t, c1, time.Second)
	c2 := dialWS(t, fx.url)
	readState(t, c2, time.Second)

	writeRequest(t, c1, `{"action":"setVolume","value":72}`)

	for _, conn := range []*websocket.Conn{c1, c2} {
		st := readState(t, conn, time.Second)
		if st.Volume != 72 {
			t.Fatalf("broadcast volume %d, want 72", st.Volume)
		}
	}
}

func TestServer_BogusActionErrorsSenderOnly(t *testing.T) {
	fx := newWSFixture(t)

	sender := dialWS(t, fx.url)
	readState(t, sender, time.Second)
	observer := dialWS(t, fx.url)
	readState(t, observer, time.Second)

	writeRequest(t, sender, `{"action":"bogus"}`)

	if msg := readError(t, sender, time.Second); msg != errUnknownAction {
		t.Fatalf("error %q, want %q", msg, errUnknownAction)
	}
	expectSilence(t, observer, 200*time.Millisecond)
}

func TestServer_MalformedFrameErrorsAndConnectionSurvives(t *testing.T) {
	fx := newWSFixture(t)

	conn := dialWS(t, fx.url)
	readState(t, conn, time.Second)

	writeRequest(t, conn, `{{{{not json`)
	readError(t, conn, time.Second)

	// The same connection keeps working afterwards.
	writeRequest(t, conn, `{"action":"getState"}`)
	st := readState(t, conn, time.Second)
	if st.Volume != 40 {
		t.Fatalf("state after malformed frame %+v, want volume=40", st)
	}
}

func TestServer_DisconnectUnregistersClient(t *testing.T) {
	fx := newWSFixture(t)

	conn := dialWS(t, fx.url)
	readState(t, conn, time.Second)
	waitUntil(t, time.Second, func() bool {
		fx.hub.mu.Lock()
		defer fx.hub.mu.Unlock()
		return len(fx.hub.clients) == 1
	}, "client not registered")

	conn.Close()

	waitUntil(t, time.Second, func() bool {
		fx.hub.mu.Lock()
		defer fx.hub.mu.Unlock()
		return len(fx.hub.clients) == 0
	}, "client not unregistered after disconnect")
}

func TestServer_DisconnectedClientDoesNotBlockBroadcast(t *testing.T) {
	fx := newWSFixture(t)

	ghost := dialWS(t, fx.url)
	readState(t, ghost, time.Second)
	survivor := dialWS(t, fx.url)
	readState(t, survivor, time.Second)

	ghost.Close()

	// Mutation broadcast still reaches the remaining client.
	writeRequest(t, survivor, `{"action":"toggleMute"}`)
	st := readState(t, survivor, time.Second)
	if !st.Muted {
		t.Fatalf("state %+v, want muted=true", st)
	}
}
