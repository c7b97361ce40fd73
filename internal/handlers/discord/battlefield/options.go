package battlefield

import "github.com/bwmarrin/discordgo"

// GetCommandOption finds a named option, descending through subcommands
func GetCommandOption(i *discordgo.InteractionCreate, name string) *discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	for len(options) > 0 {
		for _, opt := range options {
			if opt.Name == name {
				return opt
			}
		}
		if len(options[0].Options) == 0 {
			break
		}
		options = options[0].Options
	}
	return nil
}

// GetStringOption returns a string option or "" when it is absent
func GetStringOption(i *discordgo.InteractionCreate, name string) string {
	opt := GetCommandOption(i, name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}
