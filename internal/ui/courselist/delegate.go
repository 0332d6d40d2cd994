package courselist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
)

var (
	rowStyle = lipgloss.NewStyle().PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("#3B82F6")).
				PaddingLeft(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	priceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	freeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#4ADE80")).Padding(0, 1)

	levelColors = map[api.Level]lipgloss.Color{
		api.LevelBeginner:     "#4ADE80",
		api.LevelIntermediate: "#FACC15",
		api.LevelAdvanced:     "#F87171",
	}
)

// Delegate draws a course as a title row and a metadata row.
type Delegate struct{}

func (d Delegate) Height() int                             { return 2 }
func (d Delegate) Spacing() int                            { return 1 }
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d Delegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(CourseItem)
	if !ok {
		return
	}

	price := priceStyle.Render(item.Price())
	if item.IsFree() {
		price = freeStyle.Render("FREE")
	}
	head := fmt.Sprintf("%2d  %s  %s", item.Index+1, titleStyle.Render(item.Title()), price)
	if badge := levelBadge(item.Level); badge != "" {
		head += "  " + badge
	}
	meta := metaStyle.Render("    " + item.Description())

	row := rowStyle
	if index == m.Index() {
		row = selectedRowStyle
	}
	if width := m.Width(); width > 4 {
		row = row.MaxWidth(width)
	}
	fmt.Fprint(w, row.Render(head+"\n"+meta))
}

func levelBadge(l api.Level) string {
	c, ok := levelColors[l]
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().Foreground(c).Render(string(l))
}
