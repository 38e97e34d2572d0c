package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderTitledBox draws content inside a rounded border of the given outer
// width with leftTitle and rightTitle set into the top edge. Either title may
// be "". Content lines wider than the box are truncated.
//
//	╭─ Week 20 ──────────── 3 tasks ─╮
//	│ ...                            │
//	╰────────────────────────────────╯
func RenderTitledBox(content, leftTitle, rightTitle string, width int) string {
	borderStyle := lipgloss.NewStyle().Foreground(BorderDefaultColor)
	innerWidth := max(width-2, 1)

	var b strings.Builder
	b.WriteString(topBorder(leftTitle, rightTitle, innerWidth, borderStyle, TitleStyle))
	b.WriteString("\n")

	side := borderStyle.Render(borderVertical)
	for _, line := range strings.Split(content, "\n") {
		line = lipgloss.NewStyle().MaxWidth(innerWidth).Render(line)
		if pad := innerWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(side + line + side + "\n")
	}

	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// topBorder builds ╭─ Left ───── Right ─╮. The right title is dropped first
// when space runs out, then the left one is truncated.
func topBorder(leftTitle, rightTitle string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := func() string {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	// "─ " + title + " " needs 3 cells around the title, plus one trailing dash.
	const titleFrame = 4
	leftWidth := lipgloss.Width(leftTitle)
	rightWidth := lipgloss.Width(rightTitle)

	if rightTitle != "" && leftWidth+rightWidth+2*titleFrame-1 > innerWidth {
		rightTitle, rightWidth = "", 0
	}
	if leftTitle != "" && leftWidth+titleFrame > innerWidth {
		if innerWidth <= titleFrame {
			leftTitle = ""
		} else {
			leftTitle = TruncateString(leftTitle, innerWidth-titleFrame)
		}
		leftWidth = lipgloss.Width(leftTitle)
	}
	if leftTitle == "" && rightTitle == "" {
		return plain()
	}

	used := 0
	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	if leftTitle != "" {
		b.WriteString(borderStyle.Render(borderHorizontal+" ") + titleStyle.Render(leftTitle) + borderStyle.Render(" "))
		used += leftWidth + 3
	}

	tail := ""
	if rightTitle != "" {
		tail = borderStyle.Render(" ") + titleStyle.Render(rightTitle) + borderStyle.Render(" "+borderHorizontal)
		used += rightWidth + 3
	}

	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, max(innerWidth-used, 1))))
	b.WriteString(tail)
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}
