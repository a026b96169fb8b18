// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/megaschool/qachat/internal/session"
	"github.com/megaschool/qachat/internal/ui/styles"
)

// Layout rows outside the viewport: header, input border, input, status.
const chromeHeight = 4

// Config wires a chat screen to its collaborators.
type Config struct {
	Session    *session.Session
	Dispatcher *session.Dispatcher
	Theme      *styles.Theme
	Logger     *zap.Logger

	// Endpoint is shown in the header.
	Endpoint string

	// ShowTimestamps prefixes transcript lines with the entry time.
	ShowTimestamps bool

	// ExportDir is where /export writes when no path is given.
	ExportDir string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	session    *session.Session
	dispatcher *session.Dispatcher
	theme      *styles.Theme
	logger     *zap.Logger

	endpoint       string
	showTimestamps bool
	exportDir      string

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap

	// pending counts requests dispatched but not yet resolved.
	pending int

	showHelp bool
	status   string
}

// New creates a chat model. Session, Dispatcher and Theme must be set.
func New(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Prompt = "> "
	input.PromptStyle = cfg.Theme.InputPrompt
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cfg.Theme.Spinner),
	)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	return Model{
		session:        cfg.Session,
		dispatcher:     cfg.Dispatcher,
		theme:          cfg.Theme,
		logger:         logger,
		endpoint:       cfg.Endpoint,
		showTimestamps: cfg.ShowTimestamps,
		exportDir:      exportDir,
		input:          input,
		spinner:        sp,
		keyMap:         DefaultKeyMap(),
	}
}

// Init starts the cursor blink and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Pending returns the number of requests in flight.
func (m Model) Pending() int {
	return m.pending
}

// Session returns the underlying session.
func (m Model) Session() *session.Session {
	return m.session
}

// Status returns the current status bar message.
func (m Model) Status() string {
	return m.status
}

// HelpVisible reports whether the help panel is shown.
func (m Model) HelpVisible() bool {
	return m.showHelp
}
