// Package tui provides a Bubble Tea terminal user interface for ugtabs.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/download"
	"github.com/handiism/ugtabs/internal/http"
	ioutils "github.com/handiism/ugtabs/internal/io"
	"github.com/handiism/ugtabs/internal/ultimateguitar"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *zap.Logger
	logs      []LogEntry
	urls      []string
	summary   *download.Summary
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  chan download.ProgressEvent

	// Download progress
	processedTabs  int32
	downloadedTabs int32
	totalTabs      int32
	receivedBytes  int64

	// Options
	verbose   bool
	tokenizer bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil logger discards logs.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "in.txt or https://tabs.ultimate-guitar.com/tab/..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logger:    logger,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		tokenizer: strings.EqualFold(settings.Extractor, ultimateguitar.ExtractorTokenizer),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every progress event of the manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when the URL list is read and the manager is ready.
	InitDoneMsg struct {
		URLs    []string
		Manager *download.Manager
		Events  chan download.ProgressEvent
		Err     error
	}

	// DownloadDoneMsg is sent when the batch finishes.
	DownloadDoneMsg struct {
		Summary *download.Summary
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.appendLog(LogEntry{Message: "Cancelling after the current tab...", Level: download.LevelWarning})
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.tokenizer = !m.tokenizer
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.urls = nil
				m.summary = nil
				m.err = nil
				m.processedTabs = 0
				m.downloadedTabs = 0
				m.totalTabs = 0
				m.receivedBytes = 0
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.appendLog(LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		}
		cmds = append(cmds, waitForEvent(m.events))

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.urls = msg.URLs
			m.manager = msg.Manager
			m.events = msg.Events
			m.totalTabs = int32(len(msg.URLs))
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), waitForEvent(m.events), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.summary = msg.Summary
		m.refreshProgress()
		if len(msg.Summary.Skipped) > 0 {
			m.state = StateError
			m.err = errors.New("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.refreshProgress()

			var percent float64
			if m.totalTabs > 0 {
				percent = float64(m.processedTabs) / float64(m.totalTabs)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *Model) refreshProgress() {
	if m.manager == nil {
		return
	}
	m.receivedBytes, m.processedTabs, m.downloadedTabs, m.totalTabs = m.manager.GetProgress()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next progress event. It returns nil once the
// channel is closed, which ends the chain.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎸 Ultimate Guitar Tab Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download Guitar Pro tabs with your browser session"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a URL list file or a tab URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	tokenizerCheck := "[ ]"
	if m.tokenizer {
		tokenizerCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString(fmt.Sprintf("  %s HTML tokenizer extractor (ctrl+t)\n", tokenizerCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s | Cookies: %s", m.settings.OutputDir, m.settings.CookiesFile)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading URLs and cookies..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Downloading %d tab(s) to %s", len(m.urls), m.settings.OutputDir)))
	b.WriteString("\n\n")

	var percent float64
	if m.totalTabs > 0 {
		percent = float64(m.processedTabs) / float64(m.totalTabs)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Tabs: %d/%d | Downloaded: %d | Received: %.2f KB",
		m.processedTabs,
		m.totalTabs,
		m.downloadedTabs,
		float64(m.receivedBytes)/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	succeeded, total, failed := 0, 0, 0
	if m.summary != nil {
		succeeded, total, failed = m.summary.Succeeded(), m.summary.Total, len(m.summary.Failures())
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Successfully downloaded: %d/%d\n"+
			"Failed: %d\n"+
			"Size: %.2f KB",
		succeeded,
		total,
		failed,
		float64(m.receivedBytes)/1024,
	))
	b.WriteString(box)
	b.WriteString("\n\n")

	if m.summary != nil {
		for _, o := range m.summary.Failures() {
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ [%s] %s", o.Kind(), o.URL)))
			b.WriteString("\n")
		}
		if m.summary.AllAnonymous() {
			b.WriteString("\n")
			b.WriteString(warningStyle.Bold(true).Render("⚠ Every tab failed as anonymous (user_id: 0): your cookies are invalid or expired."))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	if m.summary != nil {
		b.WriteString(fmt.Sprintf("\n\n  Downloaded %d/%d, %d not attempted", m.summary.Succeeded(), m.summary.Total, len(m.summary.Skipped)))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+v: verbose • ctrl+t: tokenizer • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// initializeDownload reads the input, loads cookies and creates the manager.
func (m *Model) initializeDownload() tea.Cmd {
	input := strings.TrimSpace(m.textInput.Value())
	settings := *m.settings
	if m.tokenizer {
		settings.Extractor = ultimateguitar.ExtractorTokenizer
	} else {
		settings.Extractor = ultimateguitar.ExtractorRegex
	}
	logger := m.logger

	return func() tea.Msg {
		urls, err := readInput(input)
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		cookies, err := config.LoadCookies(settings.CookiesFile)
		if err != nil {
			return InitDoneMsg{Err: fmt.Errorf("could not load cookies: %w", err)}
		}
		client, err := http.NewClient(http.NewSession(cookies), http.ClientConfig{
			TimeoutSeconds: int(settings.Timeout / time.Second),
			ProxyURL:       settings.ProxyURL,
		})
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		// Events are dropped rather than block the download when the UI lags.
		events := make(chan download.ProgressEvent, 64)
		manager, err := download.NewManager(&settings, client, logger, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{URLs: urls, Manager: manager, Events: events}
	}
}

// readInput returns a single tab URL or the URLs of a URL list file.
func readInput(input string) ([]string, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if !ioutils.IsSiteURL(input) {
			return nil, fmt.Errorf("%s is not an %s URL", input, ioutils.SiteDomain)
		}
		return []string{input}, nil
	}

	list, err := ioutils.ReadURLList(input)
	if err != nil {
		return nil, err
	}
	if len(list.URLs) == 0 {
		return nil, fmt.Errorf("no tab URLs in %s", input)
	}
	return list.URLs, nil
}

// startDownload runs the batch in the background.
func (m *Model) startDownload() tea.Cmd {
	ctx, manager, urls, events := m.ctx, m.manager, m.urls, m.events

	return func() tea.Msg {
		summary := manager.Run(ctx, urls)
		close(events)
		return DownloadDoneMsg{Summary: summary}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen(), tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}
