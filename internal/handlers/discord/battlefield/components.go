package battlefield

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/render"
)

const (
	customIDPrefix = "battlefield"
	actionResolve  = "resolve"

	// Discord caps
	embedFieldLimit  = 1024
	embedTotalLimit  = 6000
	buttonsPerRow    = 5
	maxButtonRows    = 5
	buttonLabelLimit = 80

	colorPending = 0x8e44ad
	colorSettled = 0x27ae60

	emptyFieldValue = "\u200b"
	truncatedNote   = "\n… *cut short to fit Discord*"
)

// ResolveCustomID builds the custom ID of a resolve button
func ResolveCustomID(battlefieldID, path string) string {
	return fmt.Sprintf("%s:%s:%s:%s", customIDPrefix, actionResolve, battlefieldID, path)
}

// ParseResolveCustomID splits a resolve button's custom ID into the
// battlefield ID and the feature path.
func ParseResolveCustomID(customID string) (battlefieldID, path string, ok bool) {
	parts := strings.SplitN(customID, ":", 4)
	if len(parts) != 4 || parts[0] != customIDPrefix || parts[1] != actionResolve {
		return "", "", false
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// buildBattlefieldEmbed lists each top-level feature tree with its rules.
// Field values are cut so the embed as a whole stays inside Discord's
// character cap, leaving room for every later field's name and a note.
func buildBattlefieldEmbed(field *battlefield.Battlefield) *discordgo.MessageEmbed {
	color := colorSettled
	if !field.IsSettled() {
		color = colorPending
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🗺️ Battlefield",
		Description: fmt.Sprintf("%d pieces of terrain, seed `%d`", field.PieceCount(), field.Seed),
		Color:       color,
		Fields:      []*discordgo.MessageEmbedField{},
		Footer: &discordgo.MessageEmbedFooter{
			Text: field.ID,
		},
	}

	names := make([]string, len(field.Features))
	reserved := 0
	for i, f := range field.Features {
		names[i] = fmt.Sprintf("%d. %s", i+1, render.Title(f))
		reserved += runes(names[i]) + runes(truncatedNote)
	}

	used := runes(embed.Title) + runes(embed.Description) + runes(embed.Footer.Text)
	for i, f := range field.Features {
		reserved -= runes(names[i]) + runes(truncatedNote)
		budget := min(embedFieldLimit, embedTotalLimit-used-reserved-runes(names[i]))

		value := fitFieldValue(render.FeatureMarkdown(f), budget)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   names[i],
			Value:  value,
			Inline: false,
		})
		used += runes(names[i]) + runes(value)
	}

	return embed
}

// fitFieldValue cuts value to at most budget characters, marking the cut
func fitFieldValue(value string, budget int) string {
	if value == "" || budget < 1 {
		return emptyFieldValue
	}
	if runes(value) <= budget {
		return value
	}

	room := budget - runes(truncatedNote)
	if room < 1 {
		return emptyFieldValue
	}
	cut := render.Truncate(value, room)
	if cut == "" {
		return emptyFieldValue
	}
	return cut + truncatedNote
}

func runes(s string) int {
	return utf8.RuneCountInString(s)
}

// buildResolveComponents adds a button per feature still waiting to be resolved
func buildResolveComponents(field *battlefield.Battlefield) []discordgo.MessageComponent {
	pending := field.Pending()
	if len(pending) == 0 {
		return []discordgo.MessageComponent{}
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, path := range pending {
		if len(rows) == maxButtonRows {
			break
		}

		label := fmt.Sprintf("Resolve %s", path)
		if f, err := field.Feature(path); err == nil {
			label = fmt.Sprintf("Resolve %s (%s)", f.Name(), path)
		}
		label = render.Truncate(label, buttonLabelLimit)

		row = append(row, discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: ResolveCustomID(field.ID, path),
			Emoji: &discordgo.ComponentEmoji{
				Name: "🌲",
			},
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 && len(rows) < maxButtonRows {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}

	return rows
}
