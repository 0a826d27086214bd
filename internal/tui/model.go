// Package tui implements the interactive mixer control surface: one
// row for the captured system audio, one per playback device, each
// with routing, volume and mute controls.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixalguzman/audio-merge/internal/config"
	"github.com/felixalguzman/audio-merge/internal/device"
	"github.com/felixalguzman/audio-merge/internal/tui/style"
)

const volumeStep = 0.05

// Mixer is the engine command surface the TUI drives. engine.Engine
// satisfies it; tests substitute a recorder.
type Mixer interface {
	StartCapture() error
	StopCapture() error
	AddOutput(name string) error
	RemoveOutput(name string) error
	SetVolume(name string, volume float32) error
	SetMute(name string, muted bool) error
	SetInputVolume(volume float32) error
	SetInputMute(muted bool) error
}

// routeState mirrors the engine-side state of one signal path. Engine
// commands are fire-and-forget, so the UI keeps its own record of what
// it has asked for.
type routeState struct {
	active bool
	volume float32
	muted  bool
}

// devicesMsg delivers a fresh device enumeration.
type devicesMsg struct {
	devices []device.Info
	err     error
}

// Model is the bubbletea model for the mixer.
type Model struct {
	mixer Mixer
	keys  KeyMap
	help  help.Model
	bar   progress.Model

	devices []device.Info
	routes  map[string]*routeState
	input   routeState

	// cursor 0 selects the input row; 1..len(devices) select devices.
	cursor    int
	capturing bool
	status    string
}

// New builds the mixer model. devices is the initial enumeration and
// state the restored session, which the caller has already replayed
// into the mixer before starting capture.
func New(mixer Mixer, devices []device.Info, state config.MixerState) Model {
	routes := make(map[string]*routeState, len(state.Outputs))
	for _, o := range state.Outputs {
		routes[o.Name] = &routeState{active: true, volume: o.Volume, muted: o.Muted}
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(20),
		progress.WithoutPercentage(),
	)

	return Model{
		mixer:     mixer,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		bar:       bar,
		devices:   devices,
		routes:    routes,
		input:     routeState{active: true, volume: state.InputVolume, muted: state.InputMuted},
		capturing: true,
	}
}

// Init returns the initial command for the mixer.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the mixer.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case devicesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("device refresh failed: %v", msg.err)
			return m, nil
		}
		m.devices = msg.devices
		if m.cursor > len(m.devices) {
			m.cursor = len(m.devices)
		}
		m.status = fmt.Sprintf("found %d output devices", len(m.devices))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.devices) {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshDevices

	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()

	case key.Matches(msg, m.keys.Mute):
		m.toggleMute()

	case key.Matches(msg, m.keys.VolUp):
		m.adjustVolume(volumeStep)

	case key.Matches(msg, m.keys.VolDown):
		m.adjustVolume(-volumeStep)
	}

	return m, nil
}

// selectedDevice returns the device under the cursor, or false when
// the input row is selected.
func (m *Model) selectedDevice() (device.Info, bool) {
	if m.cursor == 0 || m.cursor > len(m.devices) {
		return device.Info{}, false
	}

	return m.devices[m.cursor-1], true
}

// route returns the UI record for a device, creating a default one on
// first touch.
func (m *Model) route(name string) *routeState {
	r, ok := m.routes[name]
	if !ok {
		r = &routeState{volume: 1.0}
		m.routes[name] = r
	}

	return r
}

func (m *Model) toggleSelected() {
	dev, ok := m.selectedDevice()
	if !ok {
		m.toggleCapture()
		return
	}

	r := m.route(dev.Name)
	if r.active {
		m.report(m.mixer.RemoveOutput(dev.Name), "removed "+dev.Name)
	} else {
		m.report(m.mixer.AddOutput(dev.Name), "added "+dev.Name)
		// Re-apply gain so a re-added route keeps its last settings.
		_ = m.mixer.SetVolume(dev.Name, r.volume)
		_ = m.mixer.SetMute(dev.Name, r.muted)
	}
	r.active = !r.active
}

func (m *Model) toggleCapture() {
	if m.capturing {
		m.report(m.mixer.StopCapture(), "capture stopped")
	} else {
		m.report(m.mixer.StartCapture(), "capture started")
	}
	m.capturing = !m.capturing
	m.input.active = m.capturing
}

func (m *Model) toggleMute() {
	dev, ok := m.selectedDevice()
	if !ok {
		m.input.muted = !m.input.muted
		m.report(m.mixer.SetInputMute(m.input.muted), fmt.Sprintf("input muted: %v", m.input.muted))
		return
	}

	r := m.route(dev.Name)
	r.muted = !r.muted
	m.report(m.mixer.SetMute(dev.Name, r.muted), fmt.Sprintf("%s muted: %v", dev.Name, r.muted))
}

func (m *Model) adjustVolume(delta float32) {
	dev, ok := m.selectedDevice()
	if !ok {
		m.input.volume = clampVolume(m.input.volume + delta)
		m.report(m.mixer.SetInputVolume(m.input.volume),
			fmt.Sprintf("input volume: %.0f%%", m.input.volume*100))
		return
	}

	r := m.route(dev.Name)
	r.volume = clampVolume(r.volume + delta)
	m.report(m.mixer.SetVolume(dev.Name, r.volume),
		fmt.Sprintf("%s volume: %.0f%%", dev.Name, r.volume*100))
}

func (m *Model) report(err error, okMsg string) {
	if err != nil {
		m.status = style.Error.Render(err.Error())
		return
	}
	m.status = okMsg
}

func clampVolume(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}

func refreshDevices() tea.Msg {
	devices, err := device.Outputs(context.Background())
	return devicesMsg{devices: devices, err: err}
}

// View renders the mixer UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(style.Title.Render("audio-merge"))
	b.WriteString(" ")
	b.WriteString(style.Subtitle.Render("system audio loopback mixer"))
	b.WriteString("\n\n")

	b.WriteString(m.renderInputRow())
	b.WriteString("\n")

	for i, dev := range m.devices {
		b.WriteString(m.renderDeviceRow(i, dev))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(style.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderInputRow() string {
	label := "System Audio"
	state := style.Active.Render("capturing")
	if !m.capturing {
		state = style.Muted.Render("stopped")
	}

	return m.renderRow(0, label, state, m.input)
}

func (m Model) renderDeviceRow(i int, dev device.Info) string {
	label := dev.Name
	if dev.IsDefault {
		label += " " + style.Subtitle.Render("(default)")
	}

	r, ok := m.routes[dev.Name]
	if !ok || !r.active {
		return m.renderRow(i+1, label, style.Muted.Render("off"), routeState{volume: 1.0})
	}

	return m.renderRow(i+1, label, style.Active.Render("on"), *r)
}

func (m Model) renderRow(row int, label, state string, r routeState) string {
	cursor := "  "
	if row == m.cursor {
		cursor = style.Cursor.Render("> ")
	}

	gain := m.bar.ViewAs(float64(r.volume))

	mute := "        "
	if r.muted {
		mute = style.Warning.Render(" [muted]")
	}

	return fmt.Sprintf("%s%-36s %-4s %s%s", cursor, label, state, gain, mute)
}

// State captures the current session for persistence, keeping host
// enumeration order for the routed outputs.
func (m Model) State() config.MixerState {
	state := config.MixerState{
		InputVolume: m.input.volume,
		InputMuted:  m.input.muted,
	}

	for _, dev := range m.devices {
		r, ok := m.routes[dev.Name]
		if !ok || !r.active {
			continue
		}
		state.Outputs = append(state.Outputs, config.OutputState{
			Name:   dev.Name,
			Volume: r.volume,
			Muted:  r.muted,
		})
	}

	return state
}
