package views

import (
	"fmt"
	"strings"

	"mhwmm/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToggleModMsg asks for a mod to be enabled or disabled
type ToggleModMsg struct {
	Mod domain.InstalledMod
}

// DeleteModMsg asks for a mod to be deleted
type DeleteModMsg struct {
	Mod domain.InstalledMod
}

// Installed lists installed mods in registry order
type Installed struct {
	mods       []domain.InstalledMod
	categories map[string]string // Category name -> hex color
	gameDir    string
	selected   int
	width      int
	height     int
}

// NewInstalled creates the installed mods view
func NewInstalled(reg *domain.Registry, mods []domain.InstalledMod) Installed {
	m := Installed{width: 80, height: 24}
	m.SetData(reg, mods)
	return m
}

// SetData replaces the listed mods, keeping the cursor on the same mod when
// it is still present.
func (m *Installed) SetData(reg *domain.Registry, mods []domain.InstalledMod) {
	var current string
	if mod := m.SelectedMod(); mod != nil {
		current = mod.Name
	}

	m.mods = mods
	m.categories = make(map[string]string)
	m.gameDir = ""
	if reg != nil {
		m.gameDir = reg.GameDirectory
		for _, c := range reg.Categories {
			m.categories[c.Name] = c.Color
		}
	}

	m.selected = 0
	for i, mod := range mods {
		if mod.Name == current {
			m.selected = i
			break
		}
	}
}

// Selected returns the currently selected index
func (m Installed) Selected() int {
	return m.selected
}

// ModCount returns the number of listed mods
func (m Installed) ModCount() int {
	return len(m.mods)
}

// SelectedMod returns the mod under the cursor
func (m Installed) SelectedMod() *domain.InstalledMod {
	if len(m.mods) == 0 || m.selected >= len(m.mods) {
		return nil
	}
	return &m.mods[m.selected]
}

// Init implements tea.Model
func (m Installed) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Installed) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Installed) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.mods) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.selected--
		if m.selected < 0 {
			m.selected = len(m.mods) - 1
		}
	case "down", "j":
		m.selected++
		if m.selected >= len(m.mods) {
			m.selected = 0
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.selected = len(m.mods) - 1
	case " ", "e":
		mod := *m.SelectedMod()
		return m, func() tea.Msg { return ToggleModMsg{Mod: mod} }
	case "d", "delete":
		mod := *m.SelectedMod()
		return m, func() tea.Msg { return DeleteModMsg{Mod: mod} }
	}

	return m, nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).MarginBottom(1)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("205")).Bold(true)
	disabledStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("241"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(6)
)

// View implements tea.Model
func (m Installed) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Installed Mods") + "\n")

	gameDir := m.gameDir
	if gameDir == "" {
		gameDir = "not set (run 'mhwmm game pick')"
	}
	b.WriteString(infoStyle.Render("Game: "+gameDir) + "\n\n")

	if len(m.mods) == 0 {
		b.WriteString(itemStyle.Render("No mods installed.") + "\n\n")
		b.WriteString(infoStyle.Render("Install one with 'mhwmm install <archive.zip>'") + "\n")
		return b.String()
	}

	enabled := 0
	for _, mod := range m.mods {
		if mod.Enabled {
			enabled++
		}
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d mods, %d enabled", len(m.mods), enabled)) + "\n\n")

	for i, mod := range m.mods {
		cursor := "  "
		style := itemStyle
		if i == m.selected {
			cursor = "▸ "
			style = selectedStyle
		} else if !mod.Enabled {
			style = disabledStyle
		}

		status := "[✓]"
		if !mod.Enabled {
			status = "[ ]"
		}

		line := fmt.Sprintf("%s%s %2d. %s", cursor, status, mod.Order, mod.Name)
		b.WriteString(style.Render(line))
		if tags := m.renderCategories(mod.Categories); tags != "" {
			b.WriteString(" " + tags)
		}
		b.WriteString("\n")

		if i == m.selected {
			b.WriteString(detailStyle.Render(fmt.Sprintf("%d nativepc files, %d root entries, %s",
				len(mod.Files.NativePC), len(mod.Files.Root), FormatSize(mod.FileSize))) + "\n")
			b.WriteString(detailStyle.Render("Installed "+mod.InstallDate.Local().Format("2006-01-02 15:04")) + "\n")
			if mod.ExternalID != "" {
				b.WriteString(detailStyle.Render("Nexus ID "+mod.ExternalID) + "\n")
			}
		}
	}

	return b.String()
}

func (m Installed) renderCategories(names []string) string {
	tags := make([]string, 0, len(names))
	for _, name := range names {
		style := infoStyle
		if color, ok := m.categories[name]; ok {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		}
		tags = append(tags, style.Render("#"+name))
	}
	return strings.Join(tags, " ")
}

// FormatSize renders a byte count for humans
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
