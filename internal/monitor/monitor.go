// Package monitor is a terminal dashboard for a running relay.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/state"
)

const recentLines = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dropStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// ActivityMsg carries one relay activity into the program.
type ActivityMsg boardnet.Activity

// Model is the dashboard state.
type Model struct {
	addr    string
	peers   int
	counts  map[state.EventName]int
	bytes   int
	dropped int
	recent  []string
}

func New(addr string) Model {
	return Model{addr: addr, counts: make(map[state.EventName]int)}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case ActivityMsg:
		m.record(boardnet.Activity(msg))
	}
	return m, nil
}

func (m *Model) record(a boardnet.Activity) {
	m.peers = a.Peers
	line := fmt.Sprintf("%s  %-8s %s", a.At.Format(time.TimeOnly), a.Kind, shortID(a.Peer))
	switch a.Kind {
	case boardnet.EventRelayed:
		m.counts[a.Event]++
		m.bytes += a.Bytes * a.Recipients
		line += fmt.Sprintf("  %s -> %d peers (%d B)", a.Event, a.Recipients, a.Bytes)
	case boardnet.EventDropped:
		m.dropped++
		line = dropStyle.Render(line + "  malformed frame")
	}
	m.recent = append(m.recent, line)
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SketchBoard relay") + "  " + labelStyle.Render(m.addr) + "\n\n")

	stat := func(label string, v any) string {
		return labelStyle.Render(label+": ") + valueStyle.Render(fmt.Sprint(v))
	}
	names := make([]string, 0, len(m.counts))
	for n := range m.counts {
		names = append(names, string(n))
	}
	sort.Strings(names)
	stats := []string{stat("peers", m.peers), stat("bytes out", m.bytes), stat("dropped", m.dropped)}
	for _, n := range names {
		stats = append(stats, stat(n, m.counts[state.EventName(n)]))
	}
	b.WriteString(boxStyle.Render(strings.Join(stats, "\n")) + "\n")

	if len(m.recent) > 0 {
		b.WriteString("\n" + strings.Join(m.recent, "\n") + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("q to quit") + "\n")
	return b.String()
}

// Peers returns the last reported peer count.
func (m Model) Peers() int { return m.peers }

// Count returns how many events of the given name were relayed.
func (m Model) Count(name state.EventName) int { return m.counts[name] }

// Run shows the dashboard for relay until the user quits or ctx is done.
// serve is started once the dashboard is listening for activity and is
// stopped when Run returns.
func Run(ctx context.Context, addr string, relay *boardnet.Relay, serve func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(addr), tea.WithAltScreen(), tea.WithContext(ctx))
	relay.OnActivity = func(a boardnet.Activity) { p.Send(ActivityMsg(a)) }

	errc := make(chan error, 1)
	go func() {
		err := serve(ctx)
		if err != nil {
			p.Quit()
		}
		errc <- err
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	cancel()
	if serveErr := <-errc; serveErr != nil {
		return serveErr
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
