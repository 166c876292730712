package main

import (
	"errors"
	"testing"
)

func TestParsePercent(t *testing.T) {
	cases := []struct {
		name    string
		out     string
		want    int
		wantErr bool
	}{
		{
			name: "pactl_sink_volume",
			out:  "Volume: front-left: 32768 /  50% / -18.06 dB,   front-right: 32768 /  50% / -18.06 dB",
			want: 50,
		},
		{
			name: "powershell_volume",
			out:  "42%",
			want: 42,
		},
		{
			name: "over_range_clamped",
			out:  "Volume: front-left: 98304 / 150% / 10.57 dB",
			want: 100,
		},
		{
			name:    "no_percent",
			out:     "Volume: something unexpected",
			wantErr: true,
		},
		{
			name:    "empty",
			out:     "",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePercent(tc.out)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseVolumeNumber(t *testing.T) {
	got, err := parseVolumeNumber("37\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 37 {
		t.Fatalf("got %d, want 37", got)
	}

	if got, err := parseVolumeNumber("120"); err != nil || got != 100 {
		t.Fatalf("got (%d, %v), want clamped 100", got, err)
	}

	if _, err := parseVolumeNumber("missing value"); err == nil {
		t.Fatalf("expected error for non-numeric output")
	}
}

func TestParseBoolWord(t *testing.T) {
	trues := []string{"true", "TRUE", "yes", "on", "1", " True\n"}
	for _, s := range trues {
		got, err := parseBoolWord(s)
		if err != nil || !got {
			t.Fatalf("parseBoolWord(%q) = (%v, %v), want true", s, got, err)
		}
	}

	falses := []string{"false", "no", "off", "0"}
	for _, s := range falses {
		got, err := parseBoolWord(s)
		if err != nil || got {
			t.Fatalf("parseBoolWord(%q) = (%v, %v), want false", s, got, err)
		}
	}

	if _, err := parseBoolWord("maybe"); err == nil {
		t.Fatalf("expected error for unknown word")
	}
}

func TestParseMuteLine(t *testing.T) {
	got, err := parseMuteLine("Mute: yes")
	if err != nil || !got {
		t.Fatalf("got (%v, %v), want muted", got, err)
	}

	got, err = parseMuteLine("Mute: no")
	if err != nil || got {
		t.Fatalf("got (%v, %v), want unmuted", got, err)
	}

	if _, err := parseMuteLine("unrelated output"); err == nil {
		t.Fatalf("expected error without a Mute: field")
	}
}

func TestUnsupportedBackendFailsEveryCall(t *testing.T) {
	b := unsupportedBackend{}

	if _, err := b.GetVolume(); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("GetVolume error %v, want ErrUnsupportedPlatform", err)
	}
	if err := b.SetVolume(10); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("SetVolume error %v, want ErrUnsupportedPlatform", err)
	}
	if _, err := b.GetMuted(); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("GetMuted error %v, want ErrUnsupportedPlatform", err)
	}
	if err := b.SetMuted(true); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("SetMuted error %v, want ErrUnsupportedPlatform", err)
	}
	if _, err := b.OutputDeviceName(); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("OutputDeviceName error %v, want ErrUnsupportedPlatform", err)
	}
}

func TestBackendErrorWrapsCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := backendErr("get_volume", cause)

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if be.Op != "get_volume" {
		t.Fatalf("op %q, want get_volume", be.Op)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
}

func TestClampVolume(t *testing.T) {
	if got := clampVolume(-5); got != 0 {
		t.Fatalf("clampVolume(-5) = %d, want 0", got)
	}
	if got := clampVolume(105); got != 100 {
		t.Fatalf("clampVolume(105) = %d, want 100", got)
	}
	if got := clampVolume(55); got != 55 {
		t.Fatalf("clampVolume(55) = %d, want 55", got)
	}
}
