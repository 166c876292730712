package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// request is the daemon's inbound wire message.
type request struct {
	Action string `json:"action"`
	Value  *int   `json:"value,omitempty"`
}

func dial(rawURL string) (*websocket.Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}

	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", u.String(), err)
	}
	return conn, nil
}

// roundTrip performs a single request against the daemon. The daemon pushes
// the current state immediately on connect; that frame is consumed before the
// request is sent so the next frame read is the actual response.
func roundTrip(rawURL string, req request) ([]byte, error) {
	conn, err := dial(rawURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		return nil, fmt.Errorf("read initial state: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, reply, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return reply, nil
}

// watch prints every state frame the daemon pushes until interrupted.
func watch(rawURL string) error {
	conn, err := dial(rawURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					done <- err
				} else {
					done <- nil
				}
				return
			}
			fmt.Println(string(msg))
		}
	}()

	select {
	case <-sigc:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return nil
	case err := <-done:
		return err
	}
}
