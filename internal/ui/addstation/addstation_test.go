package addstation

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(key string) tea.Msg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func openForm(t *testing.T) Model {
	t.Helper()
	m := New()
	require.False(t, m.Active())
	cmd := m.Open()
	require.True(t, m.Active())
	require.NotNil(t, cmd)
	return m
}

// runResult executes the command and returns the ResultMsg it produced.
func runResult(t *testing.T, cmd tea.Cmd) ResultMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(ResultMsg)
	require.True(t, ok, "command should produce a ResultMsg")
	return msg
}

func TestSubmitFlow(t *testing.T) {
	m := openForm(t)

	m, _ = m.Update(keyMsg("Jazz FM"))
	m, _ = m.Update(keyMsg("enter")) // moves to the URL field
	m, _ = m.Update(keyMsg("http://radio.example/jazz"))
	m, cmd := m.Update(keyMsg("enter"))

	res := runResult(t, cmd)
	assert.Equal(t, "Jazz FM", res.Name)
	assert.Equal(t, "http://radio.example/jazz", res.URL)
	assert.False(t, res.Canceled)
	assert.False(t, m.Active())
}

func TestEscCancels(t *testing.T) {
	m := openForm(t)

	m, _ = m.Update(keyMsg("Jazz"))
	m, cmd := m.Update(keyMsg("esc"))

	res := runResult(t, cmd)
	assert.True(t, res.Canceled)
	assert.False(t, m.Active())
}

func TestEmptyNameRejected(t *testing.T) {
	m := openForm(t)

	m, _ = m.Update(keyMsg("enter")) // skip to URL with empty name
	m, _ = m.Update(keyMsg("http://radio.example/jazz"))
	m, cmd := m.Update(keyMsg("enter"))

	assert.True(t, m.Active(), "form should stay open")
	if cmd != nil {
		_, isResult := cmd().(ResultMsg)
		assert.False(t, isResult, "no result while invalid")
	}
	assert.Contains(t, m.View(), "name is required")
}

func TestEmptyURLRejected(t *testing.T) {
	m := openForm(t)

	m, _ = m.Update(keyMsg("Jazz FM"))
	m, _ = m.Update(keyMsg("enter"))
	m, cmd := m.Update(keyMsg("enter"))

	assert.True(t, m.Active(), "form should stay open")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "stream URL is required")
}

func TestTabMovesBetweenFields(t *testing.T) {
	m := openForm(t)

	m, _ = m.Update(keyMsg("Jazz"))
	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg("http://x"))
	m, _ = m.Update(keyMsg("shift+tab"))
	m, _ = m.Update(keyMsg(" FM"))

	m, _ = m.Update(keyMsg("tab"))
	m, cmd := m.Update(keyMsg("enter"))

	res := runResult(t, cmd)
	assert.Equal(t, "Jazz FM", res.Name)
	assert.Equal(t, "http://x", res.URL)
}

func TestOpenResetsPreviousInput(t *testing.T) {
	m := openForm(t)
	m, _ = m.Update(keyMsg("leftover"))
	m, _ = m.Update(keyMsg("esc"))

	_ = m.Open()
	m, _ = m.Update(keyMsg("Jazz"))
	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg("http://x"))
	m, cmd := m.Update(keyMsg("enter"))

	res := runResult(t, cmd)
	assert.Equal(t, "Jazz", res.Name, "previous input should be cleared")
}

func TestInactiveFormIgnoresInput(t *testing.T) {
	m := New()
	m, cmd := m.Update(keyMsg("x"))
	assert.Nil(t, cmd)
	assert.False(t, m.Active())
	assert.Empty(t, m.View())
}
