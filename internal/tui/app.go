// Package tui holds the interactive terminal UI: the installed-mods manager and
// the folder and archive pickers.
package tui

import (
	"context"
	"fmt"
	"strings"

	"mhwmm/internal/domain"
	"mhwmm/internal/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ModService is the part of the core service the manager UI drives
type ModService interface {
	Registry() (*domain.Registry, error)
	LoadAll() ([]domain.InstalledMod, []error, error)
	Enable(ctx context.Context, name string) error
	Disable(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

type modsLoadedMsg struct {
	reg      *domain.Registry
	mods     []domain.InstalledMod
	failures []error
}

type opDoneMsg struct {
	verb string
	name string
	err  error
}

// App is the main TUI application model
type App struct {
	ctx       context.Context
	service   ModService
	keys      KeyMap
	help      help.Model
	installed views.Installed

	pendingDelete *domain.InstalledMod
	busy          bool
	status        string
	err           error
	width         int
	height        int
}

// NewApp creates a new TUI application
func NewApp(ctx context.Context, service ModService) App {
	return App{
		ctx:       ctx,
		service:   service,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		installed: views.NewInstalled(nil, nil),
		width:     80,
		height:    24,
	}
}

// Installed returns the mod list view
func (a App) Installed() views.Installed {
	return a.installed
}

// PendingDelete returns the mod awaiting delete confirmation, if any
func (a App) PendingDelete() *domain.InstalledMod {
	return a.pendingDelete
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return a.load()
}

func (a App) load() tea.Cmd {
	svc := a.service
	return func() tea.Msg {
		reg, err := svc.Registry()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		mods, failures, err := svc.LoadAll()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return modsLoadedMsg{reg: reg, mods: mods, failures: failures}
	}
}

func (a App) run(verb, name string, op func(context.Context, string) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return opDoneMsg{verb: verb, name: name, err: op(ctx, name)}
	}
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		model, cmd := a.installed.Update(msg)
		a.installed = model.(views.Installed)
		return a, cmd

	case modsLoadedMsg:
		a.installed.SetData(msg.reg, msg.mods)
		if len(msg.failures) > 0 {
			a.status = fmt.Sprintf("%d mod(s) could not be loaded", len(msg.failures))
		}
		return a, nil

	case views.ToggleModMsg:
		if a.busy {
			return a, nil
		}
		a.busy = true
		a.err = nil
		if msg.Mod.Enabled {
			a.status = "Disabling " + msg.Mod.Name + "..."
			return a, a.run("disabled", msg.Mod.Name, a.service.Disable)
		}
		a.status = "Enabling " + msg.Mod.Name + "..."
		return a, a.run("enabled", msg.Mod.Name, a.service.Enable)

	case views.DeleteModMsg:
		if a.busy {
			return a, nil
		}
		mod := msg.Mod
		a.pendingDelete = &mod
		return a, nil

	case opDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.err = msg.err
			a.status = ""
		} else {
			a.status = fmt.Sprintf("%s %s", strings.ToUpper(msg.verb[:1])+msg.verb[1:], msg.name)
		}
		return a, a.load()

	case ErrorMsg:
		a.err = msg.Err
		return a, nil
	}

	return a, nil
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.pendingDelete != nil {
		switch {
		case key.Matches(msg, a.keys.Confirm):
			name := a.pendingDelete.Name
			a.pendingDelete = nil
			a.busy = true
			a.err = nil
			a.status = "Deleting " + name + "..."
			return a, a.run("deleted", name, a.service.Delete)
		case key.Matches(msg, a.keys.Cancel), key.Matches(msg, a.keys.Quit):
			a.pendingDelete = nil
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(msg, a.keys.Refresh):
		return a, a.load()
	}

	model, cmd := a.installed.Update(msg)
	a.installed = model.(views.Installed)
	return a, cmd
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// View implements tea.Model
func (a App) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("mhwmm - Monster Hunter: World Mod Manager") + "\n")
	b.WriteString(a.installed.View() + "\n")

	switch {
	case a.pendingDelete != nil:
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete %s? This removes it from the game and the mod store. (y/n)", a.pendingDelete.Name)) + "\n")
	case a.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", a.err)) + "\n")
	case a.status != "":
		b.WriteString(statusStyle.Render(a.status) + "\n")
	}

	b.WriteString("\n" + a.help.View(a.keys))
	return b.String()
}
