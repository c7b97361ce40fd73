// Package render turns battlefields into text: markdown for Discord and
// lipgloss-styled output for the terminal.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
)

// Discord rejects message content over 2000 characters
const DiscordContentLimit = 2000

// Title is the display name of a feature, including its subtype
func Title(f *terrain.Feature) string {
	if f.Mysterious() {
		return fmt.Sprintf("%s (unresolved)", f.Name())
	}
	if subtype, ok := f.Subtype(); ok {
		return fmt.Sprintf("%s: %s", f.Name(), subtype.Name())
	}
	return f.Name()
}

// FeatureMarkdown describes one feature tree. Composite children are listed
// as nested bullets.
func FeatureMarkdown(f *terrain.Feature) string {
	var sb strings.Builder
	writeBody(&sb, f, "")
	for _, child := range f.Children() {
		writeChild(&sb, child, "")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeBody(sb *strings.Builder, f *terrain.Feature, indent string) {
	if d := f.Description(); d != "" {
		sb.WriteString(indent + d + "\n")
	}
	if rules, ok := f.Rules(); ok {
		sb.WriteString(indent + "> " + rules + "\n")
	}
	if subtype, ok := f.Subtype(); ok {
		sb.WriteString(indent + "**" + subtype.Name() + "**\n")
		writeBody(sb, subtype, indent)
	}
}

func writeChild(sb *strings.Builder, f *terrain.Feature, indent string) {
	sb.WriteString(fmt.Sprintf("%s- **%s**\n", indent, Title(f)))
	if rules, ok := f.Rules(); ok {
		sb.WriteString(indent + "  > " + rules + "\n")
	}
	if subtype, ok := f.Subtype(); ok {
		if rules, ok := subtype.Rules(); ok {
			sb.WriteString(indent + "  > " + rules + "\n")
		}
	}
	for _, child := range f.Children() {
		writeChild(sb, child, indent+"  ")
	}
}

// BattlefieldMarkdown renders every piece in generation order
func BattlefieldMarkdown(field *battlefield.Battlefield) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Battlefield `%s`\n", field.ID))
	sb.WriteString(fmt.Sprintf("Seed `%d`, %d pieces of terrain\n", field.Seed, field.PieceCount()))

	for i, f := range field.Features {
		sb.WriteString(fmt.Sprintf("\n### %d. %s\n", i+1, Title(f)))
		if body := FeatureMarkdown(f); body != "" {
			sb.WriteString(body + "\n")
		}
	}

	if pending := field.Pending(); len(pending) > 0 {
		sb.WriteString(fmt.Sprintf("\n_%d mysterious feature(s) not yet resolved_\n", len(pending)))
	}
	return sb.String()
}

// LogMarkdown wraps the roll log in a code block no longer than limit.
// Lines past the limit are dropped and counted in a closing note.
func LogMarkdown(log []string, limit int) string {
	const fenceOpen, fenceClose = "```\n", "```"
	if limit <= 0 {
		limit = DiscordContentLimit
	}

	var sb strings.Builder
	sb.WriteString(fenceOpen)
	for i, line := range log {
		note := fmt.Sprintf("%s\n... %d more lines", fenceClose, len(log)-i)
		reserve := len(note)
		if i == len(log)-1 {
			reserve = len(fenceClose)
		}
		if sb.Len()+len(line)+1+reserve > limit {
			sb.WriteString(note)
			return sb.String()
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(fenceClose)
	return sb.String()
}

// Truncate shortens s to at most limit bytes on a line boundary
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := strings.LastIndex(s[:limit], "\n")
	if cut <= 0 {
		cut = limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return s[:cut]
}
