// Package addstation implements the popup form for adding a station.
package addstation

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tuner/internal/ui/styles"
)

// ResultMsg is emitted when the form closes, either with a station to add
// or with Canceled set.
type ResultMsg struct {
	Name     string
	URL      string
	Canceled bool
}

const (
	fieldName = iota
	fieldURL
	fieldCount
)

// Model is the add station form.
type Model struct {
	inputs [fieldCount]textinput.Model
	focus  int
	active bool
	errMsg string
}

// New creates the form with both fields blurred and inactive.
func New() Model {
	name := textinput.New()
	name.Placeholder = "Station name"
	name.CharLimit = 64
	name.Width = 40

	url := textinput.New()
	url.Placeholder = "http://stream.example/radio"
	url.CharLimit = 256
	url.Width = 40

	return Model{inputs: [fieldCount]textinput.Model{name, url}}
}

// Active reports whether the form is on screen.
func (m Model) Active() bool {
	return m.active
}

// Open resets and shows the form. The returned command starts the cursor
// blinking in the name field.
func (m *Model) Open() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.focus = fieldName
	m.errMsg = ""
	m.active = true
	return m.inputs[fieldName].Focus()
}

// Update handles form input while the form is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.active = false
			return m, func() tea.Msg { return ResultMsg{Canceled: true} }
		case "tab", "down":
			return m.focusField((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m.focusField((m.focus + fieldCount - 1) % fieldCount)
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(field int) (Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = field
	return m, m.inputs[m.focus].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	// Enter in the name field moves on to the URL field
	if m.focus == fieldName {
		return m.focusField(fieldURL)
	}

	name := strings.TrimSpace(m.inputs[fieldName].Value())
	url := strings.TrimSpace(m.inputs[fieldURL].Value())

	if name == "" {
		m.errMsg = "name is required"
		return m.focusField(fieldName)
	}
	if url == "" {
		m.errMsg = "stream URL is required"
		return m, nil
	}

	m.active = false
	return m, func() tea.Msg { return ResultMsg{Name: name, URL: url} }
}

// View renders the bordered form box, ready for overlay centering.
func (m Model) View() string {
	if !m.active {
		return ""
	}

	t := styles.T()
	s := t.S()

	lines := []string{
		s.Title.Render("Add station"),
		"",
		s.Muted.Render("Name"),
		m.inputs[fieldName].View(),
		"",
		s.Muted.Render("Stream URL"),
		m.inputs[fieldURL].View(),
		"",
	}
	if m.errMsg != "" {
		lines = append(lines, s.Error.Render(m.errMsg))
	} else {
		lines = append(lines, s.Subtle.Render("enter save, esc cancel"))
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
	return box
}
