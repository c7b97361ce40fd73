// Package battlefield serves the /battlefield slash command and its resolve
// buttons.
package battlefield

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/KirkDiggler/battlefield-terrain/internal/logging"
	"github.com/KirkDiggler/battlefield-terrain/internal/render"
	battlefieldService "github.com/KirkDiggler/battlefield-terrain/internal/services/battlefield"
)

// CommandName is the top-level slash command
const CommandName = "battlefield"

// Session is the part of a Discord session the handler responds through
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Handler handles battlefield interactions
type Handler struct {
	service battlefieldService.Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the battlefield handler
type HandlerConfig struct {
	Service battlefieldService.Service // Required
	Logger  *slog.Logger
}

// NewHandler creates a new battlefield handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if cfg.Service == nil {
		panic("battlefield service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.FromContext(context.Background())
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

// Command describes /battlefield and its subcommands
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "Roll up terrain for a battlefield",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "generate",
				Description: "Generate a new battlefield",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "seed",
						Description: "Seed to reproduce an earlier battlefield",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "kinds",
						Description: "Comma separated terrain kinds for the random terrain table",
						Required:    false,
					},
				},
			},
			{
				Name:        "show",
				Description: "Show a battlefield",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "id",
						Description: "Battlefield ID",
						Required:    true,
					},
				},
			},
			{
				Name:        "log",
				Description: "Show the dice rolls behind a battlefield",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "id",
						Description: "Battlefield ID",
						Required:    true,
					},
				},
			},
			{
				Name:        "list",
				Description: "List the battlefields you generated",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// RegisterCommands registers /battlefield with Discord
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	cmd := Command()
	if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd); err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
	}
	h.logger.Info("registered command", "command", cmd.Name, "guild_id", guildID)
	return nil
}

// HandleInteraction is registered with discordgo.Session.AddHandler
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	Recover(h.logger, "battlefield", func(s Session, i *discordgo.InteractionCreate) {
		h.Handle(context.Background(), s, i)
	})(s, i)
}

// Handle routes a slash command or button press
func (h *Handler) Handle(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	ctx = logging.NewContext(ctx, h.logger.With("interaction_id", i.ID))

	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name != CommandName {
			return
		}
		err = h.handleCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		battlefieldID, path, ok := ParseResolveCustomID(i.MessageComponentData().CustomID)
		if !ok {
			return
		}
		err = h.handleResolve(ctx, s, i, battlefieldID, path)
	default:
		return
	}

	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "battlefield interaction failed",
			"error", err,
			"code", terrerr.GetCode(err))
		if respondErr := respondWithError(s, i, errorMessage(err)); respondErr != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "failed to send error response", "error", respondErr)
		}
	}
}

func (h *Handler) handleCommand(ctx context.Context, s Session, i *discordgo.InteractionCreate) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return terrerr.InvalidArgument("a subcommand is required")
	}

	switch sub := options[0]; sub.Name {
	case "generate":
		return h.handleGenerate(ctx, s, i)
	case "show":
		return h.handleShow(ctx, s, i, GetStringOption(i, "id"))
	case "log":
		return h.handleLog(ctx, s, i, GetStringOption(i, "id"))
	case "list":
		return h.handleList(ctx, s, i)
	default:
		return terrerr.InvalidArgumentf("unknown subcommand %q", sub.Name)
	}
}

func (h *Handler) handleGenerate(ctx context.Context, s Session, i *discordgo.InteractionCreate) error {
	input := &battlefieldService.GenerateInput{
		OwnerID:   userID(i),
		ChannelID: i.ChannelID,
	}

	if raw := strings.TrimSpace(GetStringOption(i, "seed")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return terrerr.InvalidArgumentf("seed %q is not a whole number", raw)
		}
		input.Seed = &seed
	}
	input.Kinds = parseKinds(GetStringOption(i, "kinds"))

	field, err := h.service.Generate(ctx, input)
	if err != nil {
		return err
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildBattlefieldEmbed(field)},
			Components: buildResolveComponents(field),
		},
	})
}

func (h *Handler) handleShow(ctx context.Context, s Session, i *discordgo.InteractionCreate, id string) error {
	field, err := h.service.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildBattlefieldEmbed(field)},
			Components: buildResolveComponents(field),
		},
	})
}

func (h *Handler) handleLog(ctx context.Context, s Session, i *discordgo.InteractionCreate, id string) error {
	log, err := h.service.ReadLog(ctx, id)
	if err != nil {
		return err
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: render.LogMarkdown(log, render.DiscordContentLimit),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *Handler) handleList(ctx context.Context, s Session, i *discordgo.InteractionCreate) error {
	fields, err := h.service.ListByOwner(ctx, userID(i))
	if err != nil {
		return err
	}

	content := "📝 You haven't generated any battlefields yet. Use `/battlefield generate` to roll one!"
	if len(fields) > 0 {
		var sb strings.Builder
		for _, field := range fields {
			sb.WriteString(fmt.Sprintf("• `%s` seed `%d`, %d pieces", field.ID, field.Seed, field.PieceCount()))
			if n := len(field.Pending()); n > 0 {
				sb.WriteString(fmt.Sprintf(", %d unresolved", n))
			}
			sb.WriteString("\n")
		}
		content = render.Truncate(sb.String(), render.DiscordContentLimit)
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// handleResolve settles one node and redraws the message it was pressed on
func (h *Handler) handleResolve(ctx context.Context, s Session, i *discordgo.InteractionCreate, battlefieldID, path string) error {
	result, err := h.service.Resolve(ctx, battlefieldID, path)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).InfoContext(ctx, "resolve button pressed",
		"battlefield_id", battlefieldID,
		"path", path,
		"user_id", userID(i))

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildBattlefieldEmbed(result.Battlefield)},
			Components: buildResolveComponents(result.Battlefield),
		},
	})
}

func parseKinds(raw string) []terrain.Kind {
	var kinds []terrain.Kind
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, terrain.Kind(k))
		}
	}
	return kinds
}

func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func errorMessage(err error) string {
	switch {
	case terrerr.IsNotFound(err):
		return "That battlefield no longer exists."
	case terrerr.IsUnsupportedOperation(err):
		return "That feature has already been resolved."
	case terrerr.IsInvalidArgument(err):
		return err.Error()
	default:
		return "Something went wrong rolling the terrain."
	}
}
