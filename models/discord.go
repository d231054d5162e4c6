package models

// DiscordMessage is the subset of a Discord message the bot needs
type DiscordMessage struct {
	ID        string
	ChannelID string
	GuildID   string
}

// DiscordRole represents a guild role
type DiscordRole struct {
	ID      string
	Name    string
	Managed bool
}

// DiscordChannel represents Discord channel information
type DiscordChannel struct {
	ID      string
	Name    string
	GuildID string
	// IsText is true for channels that can receive bot messages
	IsText bool
}

// DiscordMember is a guild member
type DiscordMember struct {
	UserID string
	Bot    bool
}

// MessageRef points at a message, either by bare ID or by a copied message link.
// ChannelID and GuildID are empty when only an ID was given.
type MessageRef struct {
	GuildID   string
	ChannelID string
	MessageID string
}
