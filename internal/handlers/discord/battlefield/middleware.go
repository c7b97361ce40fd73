package battlefield

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
)

// Recover wraps an interaction handler so a panic is logged and reported
// to the user instead of taking the bot down.
func Recover(logger *slog.Logger, name string, handler func(Session, *discordgo.InteractionCreate)) func(Session, *discordgo.InteractionCreate) {
	return func(s Session, i *discordgo.InteractionCreate) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in interaction handler",
					"handler", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))

				if err := respondWithError(s, i, "An unexpected error occurred."); err != nil {
					logger.Error("failed to send error response", "handler", name, "error", err)
				}
			}
		}()

		handler(s, i)
	}
}

// respondWithError sends an ephemeral error message
func respondWithError(s Session, i *discordgo.InteractionCreate, message string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
