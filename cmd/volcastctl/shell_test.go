package main

import "testing"

func TestParseShellCommand(t *testing.T) {
	cases := []struct {
		name       string
		args       []string
		wantAction string
		wantValue  *int
		wantDone   bool
		wantErr    bool
	}{
		{name: "status", args: []string{"status"}, wantAction: "getState"},
		{name: "set", args: []string{"set", "30"}, wantAction: "setVolume", wantValue: intp(30)},
		{name: "set_missing_value", args: []string{"set"}, wantErr: true},
		{name: "set_bad_value", args: []string{"set", "loud"}, wantErr: true},
		{name: "up_default", args: []string{"up"}, wantAction: "increaseVolume", wantValue: intp(5)},
		{name: "up_explicit", args: []string{"up", "12"}, wantAction: "increaseVolume", wantValue: intp(12)},
		{name: "down_explicit", args: []string{"down", "3"}, wantAction: "decreaseVolume", wantValue: intp(3)},
		{name: "mute", args: []string{"mute"}, wantAction: "mute"},
		{name: "unmute", args: []string{"unmute"}, wantAction: "unmute"},
		{name: "toggle", args: []string{"toggle"}, wantAction: "toggleMute"},
		{name: "exit", args: []string{"exit"}, wantDone: true},
		{name: "quit", args: []string{"quit"}, wantDone: true},
		{name: "unknown", args: []string{"blast"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, done, err := parseShellCommand(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if done != tc.wantDone {
				t.Fatalf("done %v, want %v", done, tc.wantDone)
			}
			if tc.wantDone {
				return
			}
			if req == nil {
				t.Fatalf("expected request")
			}
			if req.Action != tc.wantAction {
				t.Fatalf("action %q, want %q", req.Action, tc.wantAction)
			}
			if (req.Value == nil) != (tc.wantValue == nil) {
				t.Fatalf("value presence mismatch: got %v, want %v", req.Value, tc.wantValue)
			}
			if req.Value != nil && *req.Value != *tc.wantValue {
				t.Fatalf("value %d, want %d", *req.Value, *tc.wantValue)
			}
		})
	}
}

func TestParseShellCommand_HelpIsLocal(t *testing.T) {
	req, done, err := parseShellCommand([]string{"help"})
	if err != nil || done || req != nil {
		t.Fatalf("help should be handled locally, got (%v, %v, %v)", req, done, err)
	}
}

func intp(v int) *int { return &v }
