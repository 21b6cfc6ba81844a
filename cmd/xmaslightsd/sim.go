package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// Simulator
// ============================================================================
// `xmaslightsd sim` runs the complete daemon against simulated peripherals
// and puts a terminal front panel on them: the OLED contents, the strip
// pixels, the buzzer and the pot. Keyboard input feeds the same encoder
// and event channel the hardware backends use, so everything from decode
// to render is the production path. The IPC socket stays up, so xmas-ctl
// works against a simulator too.
// ============================================================================

// simUpdates coalesces peripheral changes into a single wakeup for the TUI.
type simUpdates struct {
	ch chan struct{}
}

func newSimUpdates() *simUpdates {
	return &simUpdates{ch: make(chan struct{}, 1)}
}

func (u *simUpdates) notify() {
	select {
	case u.ch <- struct{}{}:
	default:
	}
}

// ----------------------------------------------------------------------------
// Simulated peripherals
// ----------------------------------------------------------------------------

// simStrip implements Strip on an in-memory framebuffer. The daemon loop
// writes it and the TUI snapshots it, hence the lock.
type simStrip struct {
	mu         sync.Mutex
	pixels     []Color
	shown      []Color
	brightness uint8
	updates    *simUpdates
}

func newSimStrip(count int, brightness uint8, updates *simUpdates) *simStrip {
	return &simStrip{
		pixels:     make([]Color, count),
		shown:      make([]Color, count),
		brightness: brightness,
		updates:    updates,
	}
}

func (s *simStrip) Len() int {
	return len(s.pixels)
}

func (s *simStrip) SetPixel(i int, c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.pixels) {
		s.pixels[i] = c
	}
}

func (s *simStrip) Fill(c Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

func (s *simStrip) FadeAll(amount uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pixels {
		s.pixels[i] = fadeColor(s.pixels[i], amount)
	}
}

func (s *simStrip) Clear() {
	s.Fill(Color{})
}

func (s *simStrip) SetBrightness(level uint8) {
	s.mu.Lock()
	s.brightness = level
	s.mu.Unlock()
	s.updates.notify()
}

func (s *simStrip) Show() error {
	s.mu.Lock()
	copy(s.shown, s.pixels)
	s.mu.Unlock()
	s.updates.notify()
	return nil
}

func (s *simStrip) Close() error {
	return nil
}

// Snapshot returns the last shown frame and the brightness scale.
func (s *simStrip) Snapshot() ([]Color, uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Color, len(s.shown))
	copy(out, s.shown)
	return out, s.brightness
}

// simDisplayRows matches the scale-1 text rows of the 128x64 panel.
const simDisplayRows = 4

type simLine struct {
	text string
	big  bool
}

// simDisplay implements Display on a small text framebuffer.
type simDisplay struct {
	mu      sync.Mutex
	lines   [simDisplayRows]simLine
	shown   [simDisplayRows]simLine
	col     int
	row     int
	scale   int
	updates *simUpdates
}

func newSimDisplay(updates *simUpdates) *simDisplay {
	return &simDisplay{scale: 1, updates: updates}
}

func (d *simDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = [simDisplayRows]simLine{}
	d.col, d.row = 0, 0
}

func (d *simDisplay) SetCursor(col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.col, d.row = col, row
}

func (d *simDisplay) SetScale(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 1 {
		n = 1
	}
	d.scale = n
}

func (d *simDisplay) Print(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Big rows occupy two cell rows on the panel; collapse onto the first.
	row := d.row
	if row < 0 || row >= simDisplayRows {
		return
	}
	line := d.lines[row].text
	for len(line) < d.col {
		line += " "
	}
	d.lines[row] = simLine{text: line[:d.col] + text, big: d.scale > 1}
	d.col += len(text)
}

func (d *simDisplay) Flush() error {
	d.mu.Lock()
	d.shown = d.lines
	d.mu.Unlock()
	d.updates.notify()
	return nil
}

func (d *simDisplay) Close() error {
	return nil
}

// Lines returns the last flushed frame.
func (d *simDisplay) Lines() [simDisplayRows]simLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// simTone records the playing frequency for the front panel.
type simTone struct {
	freq    atomic.Int32
	updates *simUpdates
}

func (t *simTone) Play(freqHz int) error {
	t.freq.Store(int32(freqHz))
	t.updates.notify()
	return nil
}

func (t *simTone) Stop() error {
	t.freq.Store(0)
	t.updates.notify()
	return nil
}

func (t *simTone) Close() error {
	return nil
}

// simPot is a keyboard-adjustable ADC channel.
type simPot struct {
	raw atomic.Int32
}

func (p *simPot) Read() (int, error) {
	return int(p.raw.Load()), nil
}

func (p *simPot) Close() error {
	return nil
}

func (p *simPot) adjust(delta int) {
	v := int(p.raw.Load()) + delta
	if v < 0 {
		v = 0
	}
	if v > 1023 {
		v = 1023
	}
	p.raw.Store(int32(v))
}

// ----------------------------------------------------------------------------
// Entry point
// ----------------------------------------------------------------------------

// runSim wires the daemon to simulated peripherals and runs the front panel
// until the user quits.
func runSim(cfg Config, logger *slog.Logger) error {
	updates := newSimUpdates()

	strip := newSimStrip(cfg.Strip.Count, uint8(cfg.Strip.Brightness), updates)
	display := newSimDisplay(updates)
	toneDev := &simTone{updates: updates}
	pot := &simPot{}
	pot.raw.Store(int32(cfg.Strip.Brightness) * 1023 / 255)

	enc := NewEncoder()
	engine := NewEngine(strip, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now())
	p := &peripherals{
		strip:   strip,
		display: display,
		tone:    toneDev,
		pot:     pot,
		enc:     enc,
		engine:  engine,
	}

	events := make(chan Event, 64)
	bus := newBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		runDaemon(ctx, events, p, bus, cfg, initialState(cfg), logger)
		return nil
	})
	g.Go(func() error {
		return runIPCServer(ctx, ExpandPath(cfg.IPC.SocketPath), events, logger)
	})

	prog := tea.NewProgram(newSimModel(enc, events, strip, display, toneDev, pot, updates), tea.WithAltScreen())
	_, runErr := prog.Run()

	cancel()
	waitErr := g.Wait()
	if runErr != nil {
		return fmt.Errorf("run sim ui: %w", runErr)
	}
	return waitErr
}

// ----------------------------------------------------------------------------
// Front panel model
// ----------------------------------------------------------------------------

type simRefreshMsg struct{}

// listenSimUpdates re-arms the peripheral wakeup as a bubbletea command.
func listenSimUpdates(u *simUpdates) tea.Cmd {
	return func() tea.Msg {
		<-u.ch
		return simRefreshMsg{}
	}
}

type simModel struct {
	enc     *Encoder
	events  chan<- Event
	strip   *simStrip
	display *simDisplay
	tone    *simTone
	pot     *simPot
	updates *simUpdates

	quitting bool
}

func newSimModel(enc *Encoder, events chan<- Event, strip *simStrip, display *simDisplay, tone *simTone, pot *simPot, updates *simUpdates) simModel {
	return simModel{
		enc:     enc,
		events:  events,
		strip:   strip,
		display: display,
		tone:    tone,
		pot:     pot,
		updates: updates,
	}
}

func (m simModel) Init() tea.Cmd {
	return listenSimUpdates(m.updates)
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "left", "h":
			m.enc.Nudge(-1, time.Now())

		case "right", "l":
			m.enc.Nudge(+1, time.Now())

		case " ", "enter":
			m.push(ButtonPressed{Kind: PressShort})

		case "r":
			m.push(ButtonPressed{Kind: PressLong})

		case "[":
			m.pot.adjust(-32)

		case "]":
			m.pot.adjust(+32)
		}

	case simRefreshMsg:
		return m, listenSimUpdates(m.updates)
	}

	return m, nil
}

func (m simModel) push(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

var (
	simHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	simPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	simBigStyle    = lipgloss.NewStyle().Bold(true)
	simDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// simStripCols is how many pixels go on one terminal row.
const simStripCols = 25

func (m simModel) View() string {
	if m.quitting {
		return ""
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(simHeaderStyle.Render("xmaslights sim"))
	out.WriteString("\n\n")

	// OLED panel
	var panel strings.Builder
	for i, line := range m.display.Lines() {
		text := line.text
		if len(text) > 21 {
			text = text[:21]
		}
		text = text + strings.Repeat(" ", 21-len(text))
		if line.big {
			panel.WriteString(simBigStyle.Render(strings.ToUpper(text)))
		} else {
			panel.WriteString(text)
		}
		if i < simDisplayRows-1 {
			panel.WriteString("\n")
		}
	}
	out.WriteString(simPanelStyle.Render(panel.String()))
	out.WriteString("\n\n")

	// Strip pixels, brightness applied the way the driver scales output
	pixels, brightness := m.strip.Snapshot()
	for i, c := range pixels {
		if i > 0 && i%simStripCols == 0 {
			out.WriteString("\n")
		}
		scaled := Color{
			R: uint8(int(c.R) * int(brightness) / 255),
			G: uint8(int(c.G) * int(brightness) / 255),
			B: uint8(int(c.B) * int(brightness) / 255),
		}
		if scaled == (Color{}) {
			out.WriteString(simDimStyle.Render("·"))
		} else {
			out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(scaled.Hex())).Render("●"))
		}
	}
	out.WriteString("\n\n")

	// Status row
	freq := m.tone.freq.Load()
	toneStr := "buzzer: silent"
	if freq > 0 {
		toneStr = fmt.Sprintf("buzzer: %d Hz", freq)
	}
	raw := int(m.pot.raw.Load())
	out.WriteString(fmt.Sprintf("%s   pot: %4d/1023 (%d%%)", toneStr, raw, raw*100/1023))
	out.WriteString("\n\n")

	out.WriteString(simDimStyle.Render("←/→ or h/l: rotate   space/enter: press   r: hold (reset)   [ ]: pot   q: quit"))
	out.WriteString("\n")

	return out.String()
}
