// Package tui provides a Bubble Tea terminal user interface for a single download.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jeeva562/Universal-Downloader/internal/client"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C5CFF")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateDownloading State = iota
	StateComplete
	StateError
)

// Options describes the download the TUI drives.
type Options struct {
	Client *client.Client
	URL    string
	// Format is a picker value such as "video" or "720p". Empty selects the
	// default for the detected media type.
	Format string
	Dir    string
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	opts      Options
	mediaType client.MediaType
	platform  client.Platform

	state    State
	spinner  spinner.Model
	progress progress.Model

	current   client.Progress
	savedPath string
	size      int
	err       error

	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg
}

// Message types
type (
	// progressMsg carries a progress update from the running download.
	progressMsg struct {
		Progress client.Progress
	}

	// doneMsg is sent once the download has been saved or has failed.
	doneMsg struct {
		Path string
		Size int
		Err  error
	}
)

// NewModel creates a model for opts. The download starts from Init.
func NewModel(opts Options) Model {
	mt := client.DetectMediaType(opts.URL)
	if opts.Format == "" {
		opts.Format = client.DefaultFormat(mt)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C5CFF"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	m := Model{
		opts:      opts,
		mediaType: mt,
		platform:  client.DetectPlatform(opts.URL),
		spinner:   sp,
		progress:  prog,
	}
	m.reset()
	return m
}

// reset prepares a fresh download attempt.
func (m *Model) reset() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.events = make(chan tea.Msg, 16)
	m.state = StateDownloading
	m.current = client.Progress{}
	m.savedPath = ""
	m.size = 0
	m.err = nil
}

// Init starts the download.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startDownload(), waitForEvent(m.events))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateDownloading {
				m.cancel()
			}

		case "q":
			if m.state != StateDownloading {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateError {
				m.reset()
				cmds = append(cmds, m.progress.SetPercent(0), m.spinner.Tick, m.startDownload(), waitForEvent(m.events))
			}
		}

	case spinner.TickMsg:
		if m.state == StateDownloading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case progressMsg:
		m.current = msg.Progress
		cmds = append(cmds, m.progress.SetPercent(msg.Progress.Percent/100), waitForEvent(m.events))

	case doneMsg:
		m.size = msg.Size
		m.savedPath = msg.Path
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			cmds = append(cmds, m.progress.SetPercent(1))
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startDownload runs the download and feeds its progress into m.events.
func (m Model) startDownload() tea.Cmd {
	ctx, events, opts := m.ctx, m.events, m.opts
	return func() tea.Msg {
		go func() {
			res, err := opts.Client.Download(ctx, opts.URL, opts.Format, func(p client.Progress) {
				select {
				case events <- progressMsg{Progress: p}:
				default:
					// drop intermediate updates when the UI falls behind
				}
			})
			if err != nil {
				events <- doneMsg{Err: err}
				return
			}
			path, err := res.Save(opts.Dir)
			events <- doneMsg{Path: path, Size: len(res.Data), Err: err}
		}()
		return nil
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Universal Downloader"))
	b.WriteString("\n")
	b.WriteString(m.viewHints())
	b.WriteString("\n\n")

	switch m.state {
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) viewHints() string {
	platform := string(m.platform)
	if platform == "" {
		platform = "unknown site"
	}
	hint := fmt.Sprintf("%s · %s · %s", platform, m.mediaType, m.formatLabel())
	return dimStyle.Render(m.opts.URL) + "\n" + infoStyle.Render(hint)
}

func (m Model) formatLabel() string {
	for _, opt := range client.FormatOptions(m.mediaType) {
		if opt.Value == m.opts.Format {
			return opt.Label
		}
	}
	return m.opts.Format
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading..."))
	b.WriteString("\n\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n")

	status := fmt.Sprintf("%.0f%% | %.2f MB", m.current.Percent, float64(m.current.Received)/1024/1024)
	if m.current.Estimated {
		status += " (estimated)"
	}
	b.WriteString(infoStyle.Render(status))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(successStyle.Render("Download Complete!") + fmt.Sprintf(
		"\n\nSaved: %s\nSize: %.2f MB",
		m.savedPath,
		float64(m.size)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Download Failed"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + client.FriendlyMessage(m.err))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateDownloading:
		return "esc: cancel • ctrl+c: quit"
	case StateError:
		return "r: retry • q: quit"
	default:
		return "q: quit"
	}
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Err returns the error of the last attempt, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the TUI application and returns the final model's error.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.state == StateError {
		return m.err
	}
	return nil
}
