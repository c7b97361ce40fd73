package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	pieceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA"))

	rulesStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(1).
			Foreground(lipgloss.Color("#87AFD7")).
			Italic(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AF5FAF")).
			Bold(true)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Terminal renders a battlefield for a terminal. Width wraps descriptions
// and rules; zero leaves them unwrapped.
func Terminal(field *battlefield.Battlefield, width int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("Battlefield %s", field.ID)))
	sb.WriteString(fmt.Sprintf("\nseed %d, %d pieces\n", field.Seed, field.PieceCount()))

	for i, f := range field.Features {
		sb.WriteString("\n")
		writeTerminal(&sb, terrain.RootPath(i), f, 0, width)
	}

	if pending := field.Pending(); len(pending) > 0 {
		sb.WriteString("\n")
		sb.WriteString(pendingStyle.Render(fmt.Sprintf("unresolved: %s", strings.Join(pending, ", "))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeTerminal(sb *strings.Builder, path string, f *terrain.Feature, depth, width int) {
	indent := strings.Repeat("  ", depth)
	title := pieceStyle.Render(fmt.Sprintf("[%s] %s", path, Title(f)))
	if f.Mysterious() {
		title = pendingStyle.Render(fmt.Sprintf("[%s] %s", path, Title(f)))
	}
	sb.WriteString(indent + title + "\n")

	wrap := func(s lipgloss.Style) lipgloss.Style {
		if width > len(indent)+8 {
			return s.Width(width - len(indent))
		}
		return s
	}

	if depth == 0 {
		if d := f.Description(); d != "" {
			writeIndented(sb, indent, wrap(descriptionStyle).Render(d))
		}
	}
	if rules, ok := f.Rules(); ok {
		writeIndented(sb, indent, wrap(rulesStyle).Render(rules))
	}
	if subtype, ok := f.Subtype(); ok {
		if d := subtype.Description(); d != "" && depth == 0 {
			writeIndented(sb, indent, wrap(descriptionStyle).Render(d))
		}
		if rules, ok := subtype.Rules(); ok {
			writeIndented(sb, indent, wrap(rulesStyle).Render(rules))
		}
	}

	for i, child := range f.Children() {
		writeTerminal(sb, terrain.ChildPath(path, i), child, depth+1, width)
	}
}

func writeIndented(sb *strings.Builder, indent, block string) {
	for _, line := range strings.Split(block, "\n") {
		sb.WriteString(indent + line + "\n")
	}
}

// TerminalLog renders the roll log, one trace per line
func TerminalLog(log []string) string {
	var sb strings.Builder
	for _, line := range log {
		sb.WriteString(logStyle.Render(line))
		sb.WriteString("\n")
	}
	return sb.String()
}
