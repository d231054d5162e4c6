package handlers

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/utils"
)

func TestSlashCommands(t *testing.T) {
	commands := SlashCommands()
	require.Len(t, commands, len(slashOptionOrder))

	for _, cmd := range commands {
		t.Run(cmd.Name, func(t *testing.T) {
			require.NotNil(t, cmd.DefaultMemberPermissions)
			assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)
			assert.NotEmpty(t, cmd.Description)

			order, known := slashOptionOrder[models.CommandName(cmd.Name)]
			require.True(t, known)
			_, hasUsage := utils.CommandUsage[models.CommandName(cmd.Name)]
			assert.True(t, hasUsage, "slash command should have a text equivalent")

			names := make([]string, 0, len(cmd.Options))
			for _, opt := range cmd.Options {
				assert.True(t, opt.Required)
				names = append(names, opt.Name)
			}
			assert.ElementsMatch(t, order, names)
		})
	}
}

func TestCommandFromInteraction(t *testing.T) {
	t.Run("bind orders options positionally", func(t *testing.T) {
		// Options may arrive in any order
		cmd, err := commandFromInteraction(discordgo.ApplicationCommandInteractionData{
			Name: "bind",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "300000000000000001"},
				{Name: "message", Type: discordgo.ApplicationCommandOptionString, Value: testMessageID},
				{Name: "emoji", Type: discordgo.ApplicationCommandOptionString, Value: "👍"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, models.Command{
			Name: models.CommandBind,
			Args: []string{testMessageID, "👍", "300000000000000001"},
		}, cmd)
	})

	t.Run("no options", func(t *testing.T) {
		cmd, err := commandFromInteraction(discordgo.ApplicationCommandInteractionData{Name: "db-status"})

		require.NoError(t, err)
		assert.Equal(t, models.CommandDBStatus, cmd.Name)
		assert.Empty(t, cmd.Args)
	})

	t.Run("audit choice", func(t *testing.T) {
		cmd, err := commandFromInteraction(discordgo.ApplicationCommandInteractionData{
			Name: "audit",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "state", Type: discordgo.ApplicationCommandOptionString, Value: "off"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"off"}, cmd.Args)
	})

	t.Run("missing option", func(t *testing.T) {
		_, err := commandFromInteraction(discordgo.ApplicationCommandInteractionData{
			Name: "bind",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "message", Type: discordgo.ApplicationCommandOptionString, Value: testMessageID},
			},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing option: emoji")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := commandFromInteraction(discordgo.ApplicationCommandInteractionData{Name: "ping"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})
}

func TestHasAdministrator(t *testing.T) {
	assert.True(t, hasAdministrator(discordgo.PermissionAdministrator))
	assert.True(t, hasAdministrator(discordgo.PermissionAdministrator|discordgo.PermissionManageRoles))
	assert.False(t, hasAdministrator(discordgo.PermissionManageRoles))
	assert.False(t, hasAdministrator(0))
}
