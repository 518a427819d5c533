package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerModel_CancelWithEsc(t *testing.T) {
	m := newPickerModel("Pick", t.TempDir(), true)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)

	res := model.(pickerModel)
	assert.True(t, res.cancelled)
	assert.Empty(t, res.selected)
}

func TestPickerModel_UseCurrentFolder(t *testing.T) {
	dir := t.TempDir()
	m := newPickerModel("Pick", dir, true)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	require.NotNil(t, cmd)

	res := model.(pickerModel)
	assert.False(t, res.cancelled)
	assert.Equal(t, dir, res.selected)
}

func TestPickerModel_ArchiveModeIgnoresUseFolder(t *testing.T) {
	m := newPickerModel("Pick", t.TempDir(), false)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	res := model.(pickerModel)
	assert.Empty(t, res.selected)
	assert.Equal(t, []string{".zip", ".ZIP"}, res.fp.AllowedTypes)
}

func TestPickerModel_View(t *testing.T) {
	dir := t.TempDir()
	m := newPickerModel("Select the game folder", dir, true)

	view := m.View()
	assert.Contains(t, view, "Select the game folder")
	assert.Contains(t, view, dir)
	assert.Contains(t, view, "use current folder")
}

func TestPicker_ContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPicker(t.TempDir(), tea.WithInput(nil), tea.WithoutRenderer())
	_, ok, err := p.PickFolder(ctx, "Pick")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
