package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// The shell holds one connection open and translates REPL lines into
// requests. Server pushes (broadcasts from other clients, poll-detected
// changes) are printed as they arrive, so the shell doubles as a monitor.

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session against the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(serverURL, prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "volcast> ", "shell prompt string")
	return cmd
}

func runShell(rawURL, prompt string) error {
	conn, err := dial(rawURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	historyFile := filepath.Join(os.TempDir(), "volcastctl-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	// Reader goroutine: print every server frame above the prompt.
	readErr := make(chan error, 1)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			fmt.Fprintf(rl.Stdout(), "%s\n", string(msg))
			rl.Refresh()
		}
	}()

	fmt.Println("Connected. Commands: status, set N, up [N], down [N], mute, unmute, toggle, help, exit")

	for {
		select {
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}

		req, done, err := parseShellCommand(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		if done {
			return nil
		}
		if req == nil {
			continue
		}

		payload, err := json.Marshal(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal error: %v\n", err)
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
	}
}

// parseShellCommand maps one tokenized line to a request. done reports an
// exit command; a nil request with nil error means the line was handled
// locally (help).
func parseShellCommand(args []string) (req *request, done bool, err error) {
	intArg := func(def int) (int, error) {
		if len(args) < 2 {
			return def, nil
		}
		return strconv.Atoi(args[1])
	}

	switch args[0] {
	case "exit", "quit":
		return nil, true, nil

	case "help":
		fmt.Println("status        print current state")
		fmt.Println("set N         set volume to N (0-100)")
		fmt.Println("up [N]        increase volume by N (default 5)")
		fmt.Println("down [N]      decrease volume by N (default 5)")
		fmt.Println("mute          mute output")
		fmt.Println("unmute        unmute output")
		fmt.Println("toggle        toggle mute")
		fmt.Println("exit          leave the shell")
		return nil, false, nil

	case "status":
		return &request{Action: "getState"}, false, nil

	case "set":
		if len(args) < 2 {
			return nil, false, errors.New("set requires a volume (0-100)")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, false, fmt.Errorf("bad volume %q", args[1])
		}
		return &request{Action: "setVolume", Value: &v}, false, nil

	case "up":
		v, err := intArg(5)
		if err != nil {
			return nil, false, fmt.Errorf("bad delta %q", args[1])
		}
		return &request{Action: "increaseVolume", Value: &v}, false, nil

	case "down":
		v, err := intArg(5)
		if err != nil {
			return nil, false, fmt.Errorf("bad delta %q", args[1])
		}
		return &request{Action: "decreaseVolume", Value: &v}, false, nil

	case "mute":
		return &request{Action: "mute"}, false, nil

	case "unmute":
		return &request{Action: "unmute"}, false, nil

	case "toggle":
		return &request{Action: "toggleMute"}, false, nil

	default:
		return nil, false, fmt.Errorf("unknown command %q (try help)", args[0])
	}
}
