package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Curva95/discord-bot/models"
)

var adminPermission int64 = discordgo.PermissionAdministrator

var textChannelTypes = []discordgo.ChannelType{
	discordgo.ChannelTypeGuildText,
	discordgo.ChannelTypeGuildNews,
}

// slashOptionOrder lists option names in the positional order the admin use case expects
var slashOptionOrder = map[models.CommandName][]string{
	models.CommandBind:          {"message", "emoji", "role"},
	models.CommandUnbind:        {"message"},
	models.CommandListBindings:  {},
	models.CommandSetLogChannel: {"channel"},
	models.CommandDBStatus:      {},
	models.CommandBlockUser:     {"user"},
	models.CommandUnblockUser:   {"user"},
	models.CommandAudit:         {"state"},
}

// SlashCommands returns the application commands registered on Ready.
// All of them are hidden from members without the Administrator permission.
func SlashCommands() []*discordgo.ApplicationCommand {
	messageOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message",
		Description: "Message ID or message link",
		Required:    true,
	}
	userOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Member",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     string(models.CommandBind),
			Description:              "Grant a role to members who react to a message with an emoji",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				messageOption,
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Emoji members react with",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to grant",
					Required:    true,
				},
			},
		},
		{
			Name:                     string(models.CommandUnbind),
			Description:              "Remove every reaction role binding from a message",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{messageOption},
		},
		{
			Name:                     string(models.CommandListBindings),
			Description:              "List reaction role bindings in this server",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:                     string(models.CommandSetLogChannel),
			Description:              "Set the channel that receives role change logs",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Log channel",
					Required:     true,
					ChannelTypes: textChannelTypes,
				},
			},
		},
		{
			Name:                     string(models.CommandDBStatus),
			Description:              "Check database connectivity",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:                     string(models.CommandBlockUser),
			Description:              "Stop a member from receiving reaction roles",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption},
		},
		{
			Name:                     string(models.CommandUnblockUser),
			Description:              "Allow a blocked member to receive reaction roles again",
			DefaultMemberPermissions: &adminPermission,
			Options:                  []*discordgo.ApplicationCommandOption{userOption},
		},
		{
			Name:                     string(models.CommandAudit),
			Description:              "Turn role change logging on or off",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "state",
					Description: "on or off",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "on", Value: "on"},
						{Name: "off", Value: "off"},
					},
				},
			},
		},
	}
}

// commandFromInteraction converts slash command data into the same Command a text command produces
func commandFromInteraction(data discordgo.ApplicationCommandInteractionData) (models.Command, error) {
	name := models.CommandName(data.Name)
	order, known := slashOptionOrder[name]
	if !known {
		return models.Command{}, fmt.Errorf("unknown command: %s", data.Name)
	}

	values := make(map[string]string, len(data.Options))
	for _, opt := range data.Options {
		if opt == nil || opt.Value == nil {
			continue
		}
		values[opt.Name] = fmt.Sprint(opt.Value)
	}

	args := make([]string, 0, len(order))
	for _, optName := range order {
		value, ok := values[optName]
		if !ok || value == "" {
			return models.Command{}, fmt.Errorf("missing option: %s", optName)
		}
		args = append(args, value)
	}

	return models.Command{Name: name, Args: args}, nil
}

func hasAdministrator(permissions int64) bool {
	return permissions&discordgo.PermissionAdministrator != 0
}
