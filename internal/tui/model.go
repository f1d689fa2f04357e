package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type entryKind int

const (
	entryEcho entryKind = iota
	entryOutput
	entryError
)

// entry is one line of the session transcript.
type entry struct {
	kind entryKind
	text string
}

// Model is the Bubble Tea model for the interactive assistant.
type Model struct {
	exec       Executor
	input      textinput.Model
	transcript []entry
	width      int
	height     int
	done       bool
}

// NewModel creates a Model that sends each submitted line to exec.
func NewModel(exec Executor) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(Prompt)
	ti.Placeholder = "help"
	ti.Focus()

	return Model{exec: exec, input: ti}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(Prompt)-1, 0)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the current input line and records it with its response.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	m.transcript = append(m.transcript, entry{kind: entryEcho, text: Prompt + line})
	res := m.exec.Execute(line)
	if res.Output != "" {
		kind := entryOutput
		if res.Err != nil {
			kind = entryError
		}
		for _, l := range strings.Split(res.Output, "\n") {
			m.transcript = append(m.transcript, entry{kind: kind, text: l})
		}
	}

	if res.Exit {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the banner, the visible tail of the transcript, and the input line.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render(Welcome))
	b.WriteString("\n")

	lines := m.transcript
	// Banner and input take two rows.
	if m.height > 2 && len(lines) > m.height-2 {
		lines = lines[len(lines)-(m.height-2):]
	}
	for _, e := range lines {
		b.WriteString(styleFor(e.kind).Render(e.text))
		b.WriteString("\n")
	}

	if !m.done {
		b.WriteString(m.input.View())
	}
	return b.String()
}

// Done reports whether the session has ended.
func (m Model) Done() bool { return m.done }

// Transcript returns the plain text of every transcript line.
func (m Model) Transcript() []string {
	out := make([]string, len(m.transcript))
	for i, e := range m.transcript {
		out[i] = e.text
	}
	return out
}
