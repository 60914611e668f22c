package main

import (
	"bufio"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"SketchBoard/internal/state"
)

// Config holds everything the process needs at startup. Values come from
// defaults, then ~/.sketchboardrc, then flags.
type Config struct {
	Addr         string
	Width        int
	Height       int
	Reversed     bool
	Color        string
	LineWidth    float64
	LineJoin     string
	LineCap      string
	EraserRadius float64
	EraserShape  string
	MDNS         bool
	TUI          bool
	CopyLink     bool
	Verbose      bool

	RelayOnly bool
	Discover  bool
	Join      string
}

func defaultConfig() *Config {
	return &Config{
		Addr:         ":8080",
		Width:        state.DefaultWidth,
		Height:       state.DefaultHeight,
		Color:        "#ff0000",
		LineWidth:    2,
		LineJoin:     "round",
		LineCap:      "round",
		EraserRadius: state.MinEraserRadius,
		EraserShape:  "square",
		MDNS:         true,
		CopyLink:     true,
	}
}

// loadConfig applies the rc file in the user's home directory, if any.
func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}
	file, err := os.Open(filepath.Join(homeDir, ".sketchboardrc"))
	if err != nil {
		return config
	}
	defer file.Close()
	config.apply(file)
	return config
}

// apply reads key = value lines. Unknown keys and bad values are skipped.
func (c *Config) apply(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch key {
		case "addr", "listen":
			c.Addr = value
		case "width":
			if n, err := strconv.Atoi(value); err == nil {
				c.Width = n
			}
		case "height":
			if n, err := strconv.Atoi(value); err == nil {
				c.Height = n
			}
		case "reversed":
			c.Reversed = strings.ToLower(value) == "true"
		case "color":
			c.Color = value
		case "line_width", "linewidth":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				c.LineWidth = f
			}
		case "line_join", "linejoin":
			c.LineJoin = value
		case "line_cap", "linecap":
			c.LineCap = value
		case "eraser_radius", "eraserradius":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				c.EraserRadius = f
			}
		case "eraser_shape", "erasershape":
			c.EraserShape = value
		case "mdns":
			c.MDNS = strings.ToLower(value) == "true"
		case "tui":
			c.TUI = strings.ToLower(value) == "true"
		case "copy_link", "copylink":
			c.CopyLink = strings.ToLower(value) == "true"
		case "verbose":
			c.Verbose = strings.ToLower(value) == "true"
		}
	}
}

// parseFlags overrides c with command line flags and returns the remaining
// arguments.
func (c *Config) parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "relay listen address")
	fs.IntVar(&c.Width, "width", c.Width, "board width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "board height in pixels")
	fs.BoolVar(&c.Reversed, "reversed", c.Reversed, "mirror pointer input on both axes")
	fs.StringVar(&c.Color, "color", c.Color, "brush color as #rrggbb")
	fs.Float64Var(&c.LineWidth, "line-width", c.LineWidth, "brush line width")
	fs.StringVar(&c.LineJoin, "line-join", c.LineJoin, "brush line join: round or bevel")
	fs.StringVar(&c.LineCap, "line-cap", c.LineCap, "brush line cap: round, butt or square")
	fs.Float64Var(&c.EraserRadius, "eraser-radius", c.EraserRadius, "initial eraser radius")
	fs.StringVar(&c.EraserShape, "eraser-shape", c.EraserShape, "eraser region: square or circle")
	fs.BoolVar(&c.MDNS, "mdns", c.MDNS, "advertise the relay on the local network")
	fs.BoolVar(&c.TUI, "tui", c.TUI, "show the relay dashboard (with -relay)")
	fs.BoolVar(&c.CopyLink, "copy-link", c.CopyLink, "copy the share link to the clipboard")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log board activity")
	fs.BoolVar(&c.RelayOnly, "relay", false, "run only the relay, without a board")
	fs.BoolVar(&c.Discover, "discover", false, "join the first relay found on the local network")
	fs.StringVar(&c.Join, "join", "", "join the relay at host:port or a share link")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// Port returns the numeric port of Addr.
func (c *Config) Port() (int, error) {
	i := strings.LastIndex(c.Addr, ":")
	if i < 0 {
		return 0, fmt.Errorf("address %q has no port", c.Addr)
	}
	return strconv.Atoi(c.Addr[i+1:])
}

// BrushOptions converts the brush settings.
func (c *Config) BrushOptions() (state.BrushOptions, error) {
	col, err := parseHexColor(c.Color)
	if err != nil {
		return state.BrushOptions{}, err
	}
	join, err := state.ParseLineJoin(c.LineJoin)
	if err != nil {
		return state.BrushOptions{}, err
	}
	lineCap, err := state.ParseLineCap(c.LineCap)
	if err != nil {
		return state.BrushOptions{}, err
	}
	return state.BrushOptions{Color: col, LineWidth: c.LineWidth, LineJoin: join, LineCap: lineCap}, nil
}

// EraserOptions converts the eraser settings.
func (c *Config) EraserOptions() (state.EraserOptions, error) {
	shape, err := state.ParseEraseShape(c.EraserShape)
	if err != nil {
		return state.EraserOptions{}, err
	}
	return state.EraserOptions{Radius: c.EraserRadius, Shape: shape}, nil
}

func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
