package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Picker asks for a folder or a .zip archive in a full-screen file browser.
// It satisfies core.Picker.
type Picker struct {
	startDir string
	opts     []tea.ProgramOption
}

// NewPicker creates a picker that starts browsing in startDir (the home
// directory when empty).
func NewPicker(startDir string, opts ...tea.ProgramOption) *Picker {
	return &Picker{startDir: startDir, opts: opts}
}

// PickFolder lets the user choose a directory
func (p *Picker) PickFolder(ctx context.Context, title string) (string, bool, error) {
	return p.run(ctx, newPickerModel(title, p.start(), true))
}

// PickArchive lets the user choose a .zip file
func (p *Picker) PickArchive(ctx context.Context, title string) (string, bool, error) {
	return p.run(ctx, newPickerModel(title, p.start(), false))
}

func (p *Picker) start() string {
	if p.startDir != "" {
		return p.startDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func (p *Picker) run(ctx context.Context, m pickerModel) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, p.opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("running picker: %w", err)
	}

	res, ok := final.(pickerModel)
	if !ok || res.cancelled || res.selected == "" {
		return "", false, nil
	}
	return res.selected, true, nil
}

type pickerKeys struct {
	UseDir key.Binding
	Cancel key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	if k.UseDir.Enabled() {
		return []key.Binding{k.UseDir, k.Cancel}
	}
	return []key.Binding{k.Cancel}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type pickerModel struct {
	fp        filepicker.Model
	title     string
	folders   bool
	keys      pickerKeys
	help      help.Model
	selected  string
	cancelled bool
	notice    string
}

func newPickerModel(title, startDir string, folders bool) pickerModel {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	fp.AutoHeight = true
	if folders {
		fp.DirAllowed = true
		fp.FileAllowed = false
	} else {
		fp.AllowedTypes = []string{".zip", ".ZIP"}
		fp.DirAllowed = false
		fp.FileAllowed = true
	}

	keys := pickerKeys{
		UseDir: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "use current folder")),
		Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc/q", "cancel")),
	}
	keys.UseDir.SetEnabled(folders)

	return pickerModel{fp: fp, title: title, folders: folders, keys: keys, help: help.New()}
}

func (m pickerModel) Init() tea.Cmd {
	return m.fp.Init()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.UseDir):
			m.selected = m.fp.CurrentDirectory
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.selected = path
		return m, tea.Quit
	}
	if ok, path := m.fp.DidSelectDisabledFile(msg); ok {
		m.notice = path + " is not a .zip archive"
		return m, cmd
	}
	return m, cmd
}

var (
	pickerTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pickerDirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pickerNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render(m.title) + "\n"
	s += pickerDirStyle.Render(m.fp.CurrentDirectory) + "\n\n"
	s += m.fp.View() + "\n"
	if m.notice != "" {
		s += pickerNoticeStyle.Render(m.notice) + "\n"
	}
	return s + "\n" + m.help.View(m.keys)
}
