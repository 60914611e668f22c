package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"

	"SketchBoard/internal/monitor"
	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/state"
	"SketchBoard/internal/ui"
)

const discoverTimeout = 3 * time.Second

func main() {
	config := loadConfig()
	args, err := config.parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if config.Verbose {
		state.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if len(args) > 0 && strings.HasPrefix(args[0], boardnet.ShareScheme) {
		config.Join = args[0]
	}

	switch {
	case config.RelayOnly:
		err = runRelay(config)
	case config.Join != "" || config.Discover:
		err = runClient(config)
	default:
		err = runHost(config)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// runRelay serves the relay without a board until interrupted.
func runRelay(config *Config) error {
	log.Println("Starting as RELAY")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relay := boardnet.NewRelay()
	stopAdvertise := advertise(config)
	defer stopAdvertise()

	if !config.TUI {
		return relay.ListenAndServe(ctx, config.Addr)
	}

	log.SetOutput(io.Discard)
	return monitor.Run(ctx, config.Addr, relay, func(ctx context.Context) error {
		return relay.ListenAndServe(ctx, config.Addr)
	})
}

// runHost serves the relay and opens a board connected to it.
func runHost(config *Config) error {
	log.Println("Starting as HOST")
	port, err := config.Port()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := boardnet.NewRelay()
	go func() {
		if err := relay.ListenAndServe(ctx, config.Addr); err != nil {
			log.Printf("[Relay] Stopped: %v", err)
		}
	}()
	stopAdvertise := advertise(config)
	defer stopAdvertise()

	client, err := dialLocal(ctx, port)
	if err != nil {
		return err
	}
	defer client.Close()

	hostIP, err := boardnet.GetOutgoingIP()
	if err != nil {
		hostIP = "127.0.0.1"
	}
	shareLink := boardnet.ShareLink(hostIP, port)
	log.Printf("Share link: %s", shareLink)
	if config.CopyLink {
		if err := clipboard.WriteAll(shareLink); err != nil {
			log.Printf("Could not copy share link: %v", err)
		}
	}

	board, err := newBoard(config, client)
	if err != nil {
		return err
	}
	client.OnStatus = board.SetStatus
	board.SetStatus("Hosting on " + shareLink)

	ui.RunApp("SketchBoard (host)", shareLink, board)
	return nil
}

// runClient joins an existing relay, found by link or by mDNS.
func runClient(config *Config) error {
	log.Println("Starting as CLIENT")
	addr := config.Join
	if addr == "" {
		found, err := boardnet.Discover(discoverTimeout)
		if err != nil {
			return err
		}
		log.Printf("Discovered relay at %s", found)
		addr = found
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := boardnet.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	board, err := newBoard(config, client)
	if err != nil {
		return err
	}
	client.OnStatus = board.SetStatus
	board.SetStatus("Connected to " + client.URL())

	ui.RunApp("SketchBoard", "", board)
	return nil
}

func newBoard(config *Config, relay state.Relay) (*ui.BoardWidget, error) {
	brush, err := config.BrushOptions()
	if err != nil {
		return nil, err
	}
	eraser, err := config.EraserOptions()
	if err != nil {
		return nil, err
	}
	return ui.NewBoardWidget(ui.BoardOptions{
		Relay:    relay,
		Width:    config.Width,
		Height:   config.Height,
		Reversed: config.Reversed,
		Brush:    brush,
		Eraser:   eraser,
	}), nil
}

// dialLocal connects to the relay this process just started, giving the
// listener a moment to come up.
func dialLocal(ctx context.Context, port int) (*boardnet.Client, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	var lastErr error
	for range 20 {
		client, err := boardnet.Dial(ctx, addr)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	return nil, lastErr
}

// advertise announces the relay over mDNS when enabled. The returned func
// withdraws the announcement.
func advertise(config *Config) func() {
	if !config.MDNS {
		return func() {}
	}
	port, err := config.Port()
	if err != nil {
		log.Printf("[Net] Not advertising: %v", err)
		return func() {}
	}
	server, err := boardnet.Advertise(port)
	if err != nil {
		log.Printf("[Net] Not advertising: %v", err)
		return func() {}
	}
	log.Printf("[Net] Advertising %s on port %d", boardnet.ServiceType, port)
	return func() { server.Shutdown() }
}
