package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/reqcheck/pkg/match"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// sectionNames index the three partitions of a match result.
var sectionNames = []string{"Used", "Unused", "Unmatched"}

// resultRow is one displayable entry in a partition.
type resultRow struct {
	name   string
	detail string
	files  []string
}

// ResultModel is the bubbletea model for browsing a match result. Tab moves
// between the used/unused/unmatched partitions, arrows move within one, and
// the contributing files of the selection are shown below the table.
type ResultModel struct {
	Sections [3][]resultRow
	Section  int
	Cursor   int
	Height   int
	Offset   int
}

// NewResultModel builds the browsing model from a match result.
func NewResultModel(res *match.Result) ResultModel {
	var m ResultModel
	m.Height = 15

	for _, u := range res.Used {
		detail := fmt.Sprintf("%d files", len(u.Files))
		if u.ImpliedBy != "" {
			detail = fmt.Sprintf("runtime dependency for %s", u.ImpliedBy)
		}
		name := u.Entry.Name
		if len(u.Extras) > 0 {
			name = fmt.Sprintf("%s[%s]", name, strings.Join(u.Extras, ","))
		}
		m.Sections[0] = append(m.Sections[0], resultRow{name: name, detail: detail, files: u.Files})
	}
	for _, e := range res.Unused {
		m.Sections[1] = append(m.Sections[1], resultRow{name: e.Raw, detail: "never imported"})
	}
	for _, um := range res.Unmatched {
		m.Sections[2] = append(m.Sections[2], resultRow{
			name:   um.Key,
			detail: fmt.Sprintf("%d files", len(um.Files)),
			files:  um.Files,
		})
	}

	return m
}

func (m ResultModel) Init() tea.Cmd {
	return nil
}

func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Section = (m.Section + 1) % len(m.Sections)
			m.Cursor, m.Offset = 0, 0
		case "shift+tab", "left", "h":
			m.Section = (m.Section + len(m.Sections) - 1) % len(m.Sections)
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Sections[m.Section])-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ResultModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Requirements Check"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab switch section  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	rows := m.Sections[m.Section]
	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing here"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(rows) {
		end = len(rows)
	}

	tableRows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		tableRows = append(tableRows, []string{cursor, rows[i].name, rows[i].detail})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Details").
		Rows(tableRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))
	b.WriteString("\n")

	b.WriteString(m.renderFiles(rows[m.Cursor].files))

	return b.String()
}

func (m ResultModel) renderTabs() string {
	parts := make([]string, len(sectionNames))
	for i, name := range sectionNames {
		label := fmt.Sprintf("%s (%d)", name, len(m.Sections[i]))
		if i == m.Section {
			parts[i] = listSelectedStyle.Render(label)
		} else {
			parts[i] = listDimStyle.Render(label)
		}
	}
	return "  " + strings.Join(parts, listDimStyle.Render("  |  "))
}

// renderFiles shows the contributing files of the selected row, truncated so
// long lists do not push the table off screen.
func (m ResultModel) renderFiles(files []string) string {
	if len(files) == 0 {
		return ""
	}
	const maxShown = 5
	var b strings.Builder
	b.WriteString("\n")
	shown := files
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	for _, f := range shown {
		b.WriteString(listDimStyle.Render("  "+iconArrow+" ") + StyleValue.Render(f) + "\n")
	}
	if extra := len(files) - maxShown; extra > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  ... and %d more", extra)) + "\n")
	}
	return b.String()
}

// browseResult runs the interactive browser over a match result.
func browseResult(res *match.Result) error {
	_, err := tea.NewProgram(NewResultModel(res)).Run()
	return err
}
