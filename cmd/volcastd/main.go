package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "1.0.0"

func printVersion() {
	fmt.Printf("volcastd v%s\n", version)
	fmt.Println("Volume broadcast daemon: host volume/mute over websocket")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  volcastd [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Daemon that exposes the host's audio volume and mute state over a")
	fmt.Println("  local websocket. Clients receive the current state on connect and a")
	fmt.Println("  fresh snapshot whenever it changes, whether through a client request")
	fmt.Println("  or an out-of-band change detected by polling the OS mixer.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML config file (optional; defaults apply without one)")
	fmt.Println()
	fmt.Println("  -port int")
	fmt.Printf("        Websocket listen port (default %d)\n", defaultPort)
	fmt.Println()
	fmt.Println("  -polling")
	fmt.Println("        Poll the OS mixer for out-of-band changes (default true)")
	fmt.Println()
	fmt.Println("  -poll-interval-ms int")
	fmt.Printf("        Polling interval in milliseconds (default %d)\n", defaultPollIntervalMS)
	fmt.Println()
	fmt.Println("  -autostart")
	fmt.Println("        Register the daemon to start at login (default false)")
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start with defaults")
	fmt.Println("  volcastd")
	fmt.Println()
	fmt.Println("  # Custom port, faster polling")
	fmt.Println("  volcastd -port 9000 -poll-interval-ms 250")
	fmt.Println()
	fmt.Println("  # Config file as primary surface, flag override on top")
	fmt.Println("  volcastd -config ~/.config/volcast/config.yaml -log-level debug")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - The websocket channel is unauthenticated; bind it to a trusted network")
	fmt.Println("  - On platforms without a mixer wrapper the daemon still serves")
	fmt.Println("    connections but every volume/mute request returns an error")
	fmt.Println()
}

func main() {
	var (
		configPath     = flag.String("config", "", "Path to YAML config file")
		port           = flag.Int("port", 0, "Websocket listen port")
		polling        = flag.Bool("polling", true, "Poll the OS mixer for out-of-band changes")
		pollIntervalMS = flag.Int("poll-interval-ms", 0, "Polling interval in milliseconds")
		autostart      = flag.Bool("autostart", false, "Register the daemon to start at login")
		logLevelStr    = flag.String("log-level", "", "Log level: error, warn, info, debug")
		showVersion    = flag.Bool("version", false, "Print version and exit")
		showHelp       = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	// Config: defaults, then file, then flag overrides, then validation.
	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	overrides := FlagOverrides{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			overrides.Port = port
		case "polling":
			overrides.PollingEnabled = polling
		case "poll-interval-ms":
			overrides.PollIntervalMS = pollIntervalMS
		case "autostart":
			overrides.Autostart = autostart
		case "log-level":
			overrides.LogLevel = logLevelStr
		}
	})
	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logLevel, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger := setupLogger(logLevel)

	// Platform mixer, selected once. An unsupported platform still serves
	// connections; every mixer call will fail with a client-visible error.
	backend := newPlatformBackend()

	cache := NewStateCache(VolumeState{})
	if device, err := backend.OutputDeviceName(); err != nil {
		logger.Warn("could not query output device name", "error", err)
	} else {
		cache.SetDevice(device)
	}

	ctl := NewController(backend, cache, logger)

	hub := NewHub(logger, HubConfig{
		Snapshot: ctl.SnapshotFrame,
	})
	ctl.AttachHub(hub)

	srv := NewServer(cfg.Server.Port, hub, ctl, logger)

	syncAutostart(cfg.Autostart.Enabled, logger)

	// Shutdown plumbing: a signal cancels the shared context, which stops the
	// hub (closing all clients) and the poll loop; the HTTP server is drained
	// explicitly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	go hub.Run(ctx)

	if cfg.Polling.Enabled {
		poll := NewPollLoop(ctl, cfg.PollInterval(), logger)
		go poll.Run(ctx)
	} else {
		logger.Info("polling disabled; out-of-band mixer changes will not broadcast")
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	logger.Info("listening",
		"port", cfg.Server.Port,
		"polling", cfg.Polling.Enabled,
		"poll_interval_ms", cfg.Polling.IntervalMS,
		"autostart", cfg.Autostart.Enabled)

	select {
	case <-sigc:
		logger.Info("shutting down")
	case err := <-errc:
		if err != nil {
			logger.Error("server error", "error", err)
			cancel()
			os.Exit(1)
		}
		return
	}

	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
}
