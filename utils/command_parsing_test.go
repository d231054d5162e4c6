package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Curva95/discord-bot/models"
)

func TestDetectCommand(t *testing.T) {
	const botID = "111111111111"

	tests := []struct {
		name            string
		messageText     string
		expectedIsCmd   bool
		expectedCmdText string
	}{
		{
			name:            "prefixed command",
			messageText:     "!rr bind 123456 ✅ <@&654321>",
			expectedIsCmd:   true,
			expectedCmdText: "bind 123456 ✅ <@&654321>",
		},
		{
			name:            "bot mention",
			messageText:     "<@111111111111> db-status",
			expectedIsCmd:   true,
			expectedCmdText: "db-status",
		},
		{
			name:            "bot nickname mention",
			messageText:     "<@!111111111111>   list-bindings  ",
			expectedIsCmd:   true,
			expectedCmdText: "list-bindings",
		},
		{
			name:            "argument mentions are kept",
			messageText:     "!rr block-user <@222222222222>",
			expectedIsCmd:   true,
			expectedCmdText: "block-user <@222222222222>",
		},
		{
			name:            "prefix glued to a word is not a command",
			messageText:     "!rrbind 1 2 3",
			expectedIsCmd:   false,
			expectedCmdText: "",
		},
		{
			name:            "mention of someone else",
			messageText:     "<@333333333333> db-status",
			expectedIsCmd:   false,
			expectedCmdText: "",
		},
		{
			name:            "prefix alone",
			messageText:     "!rr",
			expectedIsCmd:   false,
			expectedCmdText: "",
		},
		{
			name:            "ordinary chat",
			messageText:     "hello there",
			expectedIsCmd:   false,
			expectedCmdText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectCommand(tt.messageText, "!rr", botID)
			assert.Equal(t, tt.expectedIsCmd, result.IsCommand, "IsCommand mismatch")
			assert.Equal(t, tt.expectedCmdText, result.CommandText, "CommandText mismatch")
		})
	}
}

func TestParseCommand(t *testing.T) {
	t.Run("bind with arguments", func(t *testing.T) {
		cmd, err := ParseCommand("BIND 123456 ✅ <@&654321>")
		require.NoError(t, err)
		assert.Equal(t, models.CommandBind, cmd.Name)
		assert.Equal(t, []string{"123456", "✅", "<@&654321>"}, cmd.Args)
	})

	t.Run("command without arguments", func(t *testing.T) {
		cmd, err := ParseCommand("db-status")
		require.NoError(t, err)
		assert.Equal(t, models.CommandDBStatus, cmd.Name)
		assert.Empty(t, cmd.Args)
	})

	t.Run("wrong arity reports usage", func(t *testing.T) {
		_, err := ParseCommand("bind 123456 ✅")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: bind <message_id|message_link> <emoji> <role>")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := ParseCommand("promote everyone")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseCommand("   ")
		assert.Error(t, err)
	})
}

func TestParseRefs(t *testing.T) {
	roleID, ok := ParseRoleRef("<@&123456789>")
	assert.True(t, ok)
	assert.Equal(t, "123456789", roleID)

	roleID, ok = ParseRoleRef("123456789")
	assert.True(t, ok)
	assert.Equal(t, "123456789", roleID)

	_, ok = ParseRoleRef("<@123456789>")
	assert.False(t, ok, "user mention is not a role")

	channelID, ok := ParseChannelRef("<#987654321>")
	assert.True(t, ok)
	assert.Equal(t, "987654321", channelID)

	_, ok = ParseChannelRef("#general")
	assert.False(t, ok)

	userID, ok := ParseUserRef("<@!555555555>")
	assert.True(t, ok)
	assert.Equal(t, "555555555", userID)

	_, ok = ParseUserRef("someone")
	assert.False(t, ok)
}

func TestParseMessageRef(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.MessageRef
		ok       bool
	}{
		{
			name:     "raw id",
			input:    "123456789012345678",
			expected: models.MessageRef{MessageID: "123456789012345678"},
			ok:       true,
		},
		{
			name:  "message link",
			input: "https://discord.com/channels/111111111/222222222/333333333",
			expected: models.MessageRef{
				GuildID:   "111111111",
				ChannelID: "222222222",
				MessageID: "333333333",
			},
			ok: true,
		},
		{
			name:  "canary link",
			input: "https://canary.discordapp.com/channels/111111111/222222222/333333333",
			expected: models.MessageRef{
				GuildID:   "111111111",
				ChannelID: "222222222",
				MessageID: "333333333",
			},
			ok: true,
		},
		{
			name:     "direct message link has no guild",
			input:    "https://discord.com/channels/@me/222222222/333333333",
			expected: models.MessageRef{ChannelID: "222222222", MessageID: "333333333"},
			ok:       true,
		},
		{
			name:  "garbage",
			input: "msg1",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParseMessageRef(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, ref)
			}
		})
	}
}

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "fine") })
	assert.PanicsWithValue(t, "invariant violated - broken", func() { AssertInvariant(false, "broken") })
}
