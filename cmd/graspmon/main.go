// graspmon - terminal monitor for the grasp engine
// Watches /ws/state live and polls /api/status, showing bodies, the
// hand cursor and recent interaction events.
package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-grasp/internal/config"
	"github.com/teslashibe/go-grasp/internal/httpc"
	"github.com/teslashibe/go-grasp/pkg/protocol"
	"github.com/teslashibe/go-grasp/pkg/web"
)

const (
	statusPollInterval = 2 * time.Second
	maxEvents          = 6

	// Forward every Nth state frame to the UI; 60Hz redraws help nobody.
	stateThrottle = 6
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	heldStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	hoverStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	eventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	footStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	host := flag.String("host", "localhost", "Engine host")
	port := flag.String("port", config.Port(config.DefaultPort), "Engine port")
	flag.Parse()

	ch := make(chan tea.Msg, 64)
	go wsReader(config.EngineWSURL(*host, *port)+"/ws/state", ch)

	m := model{
		baseURL: config.EngineURL(*host, *port),
		ch:      ch,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

type stateMsg protocol.StateData

type eventMsg protocol.EventData

type connMsg bool

type statusMsg web.StatusData

type statusErrMsg string

type resetDoneMsg string

type model struct {
	baseURL string
	ch      chan tea.Msg

	connected bool
	state     *protocol.StateData
	status    *web.StatusData
	events    []string
	lastErr   string
	width     int
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listen(m.ch), fetchStatus(m.baseURL))
}

// listen re-arms a read from the websocket reader's channel.
func listen(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

// fetchStatus polls /api/status once.
func fetchStatus(baseURL string) tea.Cmd {
	return func() tea.Msg {
		var s web.StatusData
		if err := httpc.GetJSON(baseURL+"/api/status", &s); err != nil {
			return statusErrMsg(err.Error())
		}
		return statusMsg(s)
	}
}

// requestReset posts a scene reset for the active preset.
func requestReset(baseURL string) tea.Cmd {
	return func() tea.Msg {
		if err := httpc.PostJSON(baseURL+"/api/reset", map[string]string{}, nil); err != nil {
			return statusErrMsg(err.Error())
		}
		return resetDoneMsg("reset requested")
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, requestReset(m.baseURL)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case connMsg:
		m.connected = bool(msg)
		if !m.connected {
			m.state = nil
		}
		return m, listen(m.ch)

	case stateMsg:
		s := protocol.StateData(msg)
		m.state = &s
		return m, listen(m.ch)

	case eventMsg:
		m.pushEvent(protocol.EventData(msg))
		return m, listen(m.ch)

	case statusMsg:
		s := web.StatusData(msg)
		m.status = &s
		m.lastErr = ""
		return m, tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
			return fetchStatus(m.baseURL)()
		})

	case statusErrMsg:
		m.lastErr = string(msg)
		return m, tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
			return fetchStatus(m.baseURL)()
		})

	case resetDoneMsg:
		m.events = append(m.events, fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), string(msg)))
		m.trimEvents()
	}
	return m, nil
}

func (m *model) pushEvent(e protocol.EventData) {
	ts := time.Now().Format("15:04:05")
	var line string
	switch e.Kind {
	case protocol.EventGrab:
		line = fmt.Sprintf("%s  grab %s", ts, short(e.Body))
	case protocol.EventRelease:
		line = fmt.Sprintf("%s  release %s force %.1f", ts, short(e.Body), e.Force)
	case protocol.EventReset:
		line = fmt.Sprintf("%s  reset to %q", ts, e.Preset)
	default:
		line = fmt.Sprintf("%s  %s", ts, e.Kind)
	}
	m.events = append(m.events, line)
	m.trimEvents()
}

func (m *model) trimEvents() {
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func (m model) View() string {
	header := titleStyle.Render("🧤 grasp monitor")
	if m.status != nil {
		header += labelStyle.Render(fmt.Sprintf("  preset=%s tick=%d bodies=%d viewers=%d up=%s",
			m.status.Preset, m.status.Tick, m.status.Bodies, m.status.Viewers, m.status.Uptime))
	}

	out := header + "\n\n"

	if !m.connected {
		out += errStyle.Render("● disconnected from /ws/state, retrying...") + "\n\n"
	} else if m.state == nil {
		out += labelStyle.Render("● connected, waiting for state...") + "\n\n"
	} else {
		out += m.renderState()
	}

	if len(m.events) > 0 {
		out += labelStyle.Render("events") + "\n"
		for _, e := range m.events {
			out += eventStyle.Render("  "+e) + "\n"
		}
		out += "\n"
	}

	if m.lastErr != "" {
		out += errStyle.Render("⚠ "+m.lastErr) + "\n"
	}

	out += footStyle.Render("q quit · r reset scene")
	return out
}

func (m model) renderState() string {
	s := m.state
	out := ""

	if s.Hand != nil && s.Hand.Present {
		grab := ""
		if s.Hand.Grabbing {
			grab = heldStyle.Render("  PINCH")
		}
		out += fmt.Sprintf("🖐️ screen (%.2f, %.2f)  depth %.2f%s\n\n",
			s.Hand.Screen[0], s.Hand.Screen[1], s.Hand.Depth, grab)
	} else {
		out += labelStyle.Render("🖐️ no hand") + "\n\n"
	}

	hover := make(map[string]bool, len(s.Hover))
	for _, id := range s.Hover {
		hover[id] = true
	}

	out += labelStyle.Render(fmt.Sprintf("%-10s %-24s %-8s %-6s", "body", "position", "|v|", "r")) + "\n"
	for _, b := range s.Bodies {
		line := fmt.Sprintf("%-10s (%6.2f, %6.2f, %6.2f)  %6.2f  %4.2f",
			short(b.ID), b.Position[0], b.Position[1], b.Position[2], speed(b.Velocity), b.Radius)
		switch {
		case b.Held:
			line = heldStyle.Render(line + "  HELD")
		case hover[b.ID]:
			line = hoverStyle.Render(line + "  hover")
		}
		out += line + "\n"
	}
	out += "\n"
	return out
}

// short trims a uuid to its first group for display.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func speed(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// wsReader feeds state and event messages into the UI, reconnecting
// until the process exits.
func wsReader(url string, ch chan tea.Msg) {
	for {
		if err := readOnce(url, ch); err != nil {
			ch <- connMsg(false)
		}
		time.Sleep(2 * time.Second)
	}
}

func readOnce(url string, ch chan tea.Msg) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	ch <- connMsg(true)

	frames := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}

		switch msg.Type {
		case protocol.TypeState:
			frames++
			if frames%stateThrottle != 0 {
				continue
			}
			if sd, err := msg.GetStateData(); err == nil {
				ch <- stateMsg(*sd)
			}
		case protocol.TypeEvent:
			if ed, err := msg.GetEventData(); err == nil {
				ch <- eventMsg(*ed)
			}
		}
	}
}
