package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// volcastctl is a command-line client for the volcastd daemon. One-shot
// subcommands open a connection, perform a single request, print the result
// and exit; `watch` and `shell` hold the connection open.

var serverURL string

func main() {
	root := &cobra.Command{
		Use:   "volcastctl",
		Short: "Control a volcastd daemon from the command line",
		Long:  "Websocket client for volcastd: query and change the host volume/mute state.",
	}

	root.PersistentFlags().StringVar(&serverURL, "url", "ws://127.0.0.1:8921/", "volcastd websocket URL")

	root.AddCommand(
		newStatusCmd(),
		newSetCmd(),
		newStepCmd("up", "increaseVolume", "Increase volume by a delta"),
		newStepCmd("down", "decreaseVolume", "Decrease volume by a delta"),
		newMuteCmd("mute", "mute", "Mute the default output"),
		newMuteCmd("unmute", "unmute", "Unmute the default output"),
		newMuteCmd("toggle", "toggleMute", "Toggle mute on the default output"),
		newWatchCmd(),
		newShellCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current volume/mute state",
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(serverURL, request{Action: "getState"})
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <volume>",
		Short: "Set volume to an absolute value (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("volume must be an integer: %w", err)
			}
			reply, err := roundTrip(serverURL, request{Action: "setVolume", Value: &v})
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

func newStepCmd(use, action, short string) *cobra.Command {
	var delta int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(serverURL, request{Action: action, Value: &delta})
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
	cmd.Flags().IntVar(&delta, "delta", 5, "volume step size")
	return cmd
}

func newMuteCmd(use, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := roundTrip(serverURL, request{Action: action})
			if err != nil {
				return err
			}
			return printReply(reply)
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream state updates until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(serverURL)
		},
	}
}

// printReply pretty-prints a server frame; error frames become a non-zero
// exit through the returned error.
func printReply(raw []byte) error {
	var errFrame struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &errFrame); err == nil && errFrame.Error != "" {
		return fmt.Errorf("server: %s", errFrame.Error)
	}

	var pretty map[string]any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
	return nil
}
