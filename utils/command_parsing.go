package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Curva95/discord-bot/models"
)

var (
	snowflakeRegex      = regexp.MustCompile(`^[0-9]{5,20}$`)
	roleMentionRegex    = regexp.MustCompile(`^<@&([0-9]{5,20})>$`)
	channelMentionRegex = regexp.MustCompile(`^<#([0-9]{5,20})>$`)
	userMentionRegex    = regexp.MustCompile(`^<@!?([0-9]{5,20})>$`)
	messageLinkRegex    = regexp.MustCompile(
		`^https?://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/channels/([0-9]{5,20}|@me)/([0-9]{5,20})/([0-9]{5,20})/?$`,
	)
	discordMentionRegex = regexp.MustCompile(`<@!?[0-9]+>`)
)

// CommandDetectionResult represents the result of command detection
type CommandDetectionResult struct {
	IsCommand   bool
	CommandText string
}

// commandArity is the number of arguments each command takes
var commandArity = map[models.CommandName]int{
	models.CommandBind:          3,
	models.CommandUnbind:        1,
	models.CommandListBindings:  0,
	models.CommandSetLogChannel: 1,
	models.CommandDBStatus:      0,
	models.CommandBlockUser:     1,
	models.CommandUnblockUser:   1,
	models.CommandAudit:         1,
}

// CommandUsage is the help text shown when a command cannot be parsed
var CommandUsage = map[models.CommandName]string{
	models.CommandBind:          "bind <message_id|message_link> <emoji> <role>",
	models.CommandUnbind:        "unbind <message_id|message_link>",
	models.CommandListBindings:  "list-bindings",
	models.CommandSetLogChannel: "set-log-channel <channel>",
	models.CommandDBStatus:      "db-status",
	models.CommandBlockUser:     "block-user <user>",
	models.CommandUnblockUser:   "unblock-user <user>",
	models.CommandAudit:         "audit <on|off>",
}

// DetectCommand checks if a message is addressed to the bot, either through the command
// prefix or by mentioning the bot first. The returned text has prefix and mentions removed.
func DetectCommand(messageText, prefix, botUserID string) CommandDetectionResult {
	text := strings.TrimSpace(messageText)

	addressed := false
	if prefix != "" && (text == prefix || strings.HasPrefix(text, prefix+" ")) {
		text = strings.TrimPrefix(text, prefix)
		addressed = true
	} else if botUserID != "" &&
		(strings.HasPrefix(text, "<@"+botUserID+">") || strings.HasPrefix(text, "<@!"+botUserID+">")) {
		addressed = true
	}

	if !addressed {
		return CommandDetectionResult{IsCommand: false, CommandText: ""}
	}

	text = strings.TrimSpace(StripMentions(text))
	if text == "" {
		return CommandDetectionResult{IsCommand: false, CommandText: ""}
	}

	return CommandDetectionResult{IsCommand: true, CommandText: text}
}

// StripMentions removes leading Discord user mentions from message text
func StripMentions(text string) string {
	text = strings.TrimSpace(text)
	for {
		loc := discordMentionRegex.FindStringIndex(text)
		if loc == nil || loc[0] != 0 {
			return text
		}
		text = strings.TrimSpace(text[loc[1]:])
	}
}

// ParseCommand splits command text into a command name and its arguments
func ParseCommand(commandText string) (models.Command, error) {
	fields := strings.Fields(commandText)
	if len(fields) == 0 {
		return models.Command{}, fmt.Errorf("empty command")
	}

	name := models.CommandName(strings.ToLower(fields[0]))
	arity, known := commandArity[name]
	if !known {
		return models.Command{}, fmt.Errorf("unknown command: %s", fields[0])
	}

	args := fields[1:]
	if len(args) != arity {
		return models.Command{}, fmt.Errorf("usage: %s", CommandUsage[name])
	}

	return models.Command{Name: name, Args: args}, nil
}

// ParseRoleRef accepts a role mention (<@&id>) or a raw role ID
func ParseRoleRef(value string) (string, bool) {
	return parseRef(value, roleMentionRegex)
}

// ParseChannelRef accepts a channel mention (<#id>) or a raw channel ID
func ParseChannelRef(value string) (string, bool) {
	return parseRef(value, channelMentionRegex)
}

// ParseUserRef accepts a user mention (<@id> or <@!id>) or a raw user ID
func ParseUserRef(value string) (string, bool) {
	return parseRef(value, userMentionRegex)
}

// ParseMessageRef accepts a raw message ID or a copied Discord message link
func ParseMessageRef(value string) (models.MessageRef, bool) {
	value = strings.TrimSpace(value)
	if snowflakeRegex.MatchString(value) {
		return models.MessageRef{MessageID: value}, true
	}

	match := messageLinkRegex.FindStringSubmatch(value)
	if match == nil {
		return models.MessageRef{}, false
	}

	ref := models.MessageRef{ChannelID: match[2], MessageID: match[3]}
	if match[1] != "@me" {
		ref.GuildID = match[1]
	}
	return ref, true
}

func parseRef(value string, mentionRegex *regexp.Regexp) (string, bool) {
	value = strings.TrimSpace(value)
	if snowflakeRegex.MatchString(value) {
		return value, true
	}
	if match := mentionRegex.FindStringSubmatch(value); match != nil {
		return match[1], true
	}
	return "", false
}
