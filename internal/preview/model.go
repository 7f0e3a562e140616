// Package preview is a terminal emulator for the LED panel: it drives a
// player on a tea.Tick loop and draws the framebuffer with half blocks.
package preview

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/matrixvis/internal/export"
	"github.com/san-kum/matrixvis/internal/player"
	"github.com/san-kum/matrixvis/internal/vis"
)

const historyLen = 48

type Options struct {
	FPS   int
	Theme string
	// GIFDir receives recordings toggled with the g key.
	GIFDir    string
	GIFScale  int
	GIFFrames int
}

type frameMsg time.Time

type Model struct {
	player   *player.Player
	renderer *Renderer
	theme    Theme
	opts     Options

	paused bool
	tilt   vis.Vec2
	last   time.Time
	frame  player.Frame

	rec       *export.GIFRecorder
	recording bool
	status    string

	history []float64
	width   int
	height  int
}

func New(p *player.Player, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.GIFScale <= 0 {
		opts.GIFScale = 4
	}
	if opts.GIFFrames <= 0 {
		opts.GIFFrames = opts.FPS * 10
	}
	if opts.GIFDir == "" {
		opts.GIFDir = "."
	}
	theme := GetTheme(opts.Theme)
	return &Model{
		player:   p,
		renderer: NewRenderer(theme.Off),
		theme:    theme,
		opts:     opts,
		rec:      export.NewGIFRecorder(opts.GIFScale, opts.FPS, opts.GIFFrames),
		history:  make([]float64, 0, historyLen),
	}
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		now := time.Time(msg)
		if !m.paused {
			delta := 1 / float64(m.opts.FPS)
			if !m.last.IsZero() {
				delta = now.Sub(m.last).Seconds()
			}
			m.step(delta)
		}
		m.last = now
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step(delta float64) {
	m.frame = m.player.Step(delta, m.tilt)

	m.history = append(m.history, float64(m.frame.Render.Microseconds())/1000)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}

	if m.recording {
		m.rec.Capture(m.frame.Buffer)
		if m.rec.Full() {
			m.stopRecording()
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case "n", "right", "l":
		m.player.Press(player.ButtonNext)
		m.history = m.history[:0]
	case "p", "left", "h":
		m.player.Press(player.ButtonPrev)
		m.history = m.history[:0]
	case "r":
		m.player.ResetActive()
	case " ":
		m.paused = !m.paused
	case ".":
		if m.paused {
			m.step(1 / float64(m.opts.FPS))
		}
	case "t":
		m.theme = nextTheme(m.theme)
		m.renderer.SetOff(m.theme.Off)
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.rec.Reset()
			m.recording = true
			m.status = "recording"
		}
	case "w":
		m.tilt.Y = max(m.tilt.Y-0.5, -1)
	case "s":
		m.tilt.Y = min(m.tilt.Y+0.5, 1)
	case "a":
		m.tilt.X = max(m.tilt.X-0.5, -1)
	case "d":
		m.tilt.X = min(m.tilt.X+0.5, 1)
	case "0":
		m.tilt = vis.Vec2{}
	}
	return m, nil
}

func (m *Model) stopRecording() {
	m.recording = false
	if m.rec.Len() == 0 {
		m.status = "nothing recorded"
		return
	}
	path := filepath.Join(m.opts.GIFDir, fmt.Sprintf("%s_%d.gif", m.player.Active().Name(), time.Now().Unix()))
	if err := m.rec.Save(path); err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", m.rec.Len(), path)
}

// Paused reports whether frame stepping is suspended.
func (m *Model) Paused() bool { return m.paused }

// Recording reports whether frames are being captured to a GIF.
func (m *Model) Recording() bool { return m.recording }

func (m *Model) Status() string { return m.status }

func (m *Model) Tilt() vis.Vec2 { return m.tilt }

func (m *Model) Theme() Theme { return m.theme }

func (m *Model) View() string {
	var (
		primary = lipgloss.NewStyle().Foreground(m.theme.Primary)
		accent  = lipgloss.NewStyle().Foreground(m.theme.Accent)
		text    = lipgloss.NewStyle().Foreground(m.theme.Text)
		muted   = lipgloss.NewStyle().Foreground(m.theme.Muted)
		success = lipgloss.NewStyle().Foreground(m.theme.Success)
		warning = lipgloss.NewStyle().Foreground(m.theme.Warning)
	)

	var b strings.Builder

	icon, state := success.Render("●"), success.Render("running")
	if m.paused {
		icon, state = warning.Render("○"), warning.Render("paused")
	}
	names := m.player.Names()
	active := m.player.Active().Name()
	pos := 0
	for i, n := range names {
		if n == active {
			pos = i + 1
			break
		}
	}
	b.WriteString(fmt.Sprintf("\n  %s %s %s  %s\n\n",
		icon, primary.Render(active), muted.Render(fmt.Sprintf("%d/%d", pos, len(names))), state))

	for _, line := range strings.Split(strings.TrimRight(m.renderer.Render(m.player.Buffer()), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString(fmt.Sprintf("\n  %s %s  %s %s  %s %s\n",
		muted.Render("t"), text.Render(fmt.Sprintf("%.1fs", m.frame.Time)),
		muted.Render("frame"), text.Render(fmt.Sprintf("%d", m.frame.Index)),
		muted.Render("tilt"), text.Render(fmt.Sprintf("%+.1f,%+.1f", m.tilt.X, m.tilt.Y))))

	if len(m.history) > 1 {
		sum, peak := 0.0, 0.0
		for _, v := range m.history {
			sum += v
			peak = max(peak, v)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			muted.Render("ms"), accent.Render(sparkline(m.history, historyLen)),
			text.Render(fmt.Sprintf("%.2f max %.2f", sum/float64(len(m.history)), peak))))
	}

	if m.recording {
		b.WriteString("  " + warning.Render(fmt.Sprintf("● rec %d/%d", m.rec.Len(), m.opts.GIFFrames)) + "\n")
	} else if m.status != "" {
		b.WriteString("  " + muted.Render(m.status) + "\n")
	}

	b.WriteString(muted.Render("\n  ←→ switch  r reset  space pause  . step  wasd tilt  g gif  t theme  q quit") + "\n")
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := max(len(data)/width, 1)
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		sb.WriteRune(chars[min(max(idx, 0), 7)])
	}
	return sb.String()
}

// Run starts the preview in the alternate screen and blocks until quit.
func Run(p *player.Player, opts Options) error {
	_, err := tea.NewProgram(New(p, opts), tea.WithAltScreen()).Run()
	return err
}
