package models

// CommandName identifies an operator command
type CommandName string

const (
	CommandBind          CommandName = "bind"
	CommandUnbind        CommandName = "unbind"
	CommandListBindings  CommandName = "list-bindings"
	CommandSetLogChannel CommandName = "set-log-channel"
	CommandDBStatus      CommandName = "db-status"
	CommandBlockUser     CommandName = "block-user"
	CommandUnblockUser   CommandName = "unblock-user"
	CommandAudit         CommandName = "audit"
)

// Command is a parsed operator command, independent of whether it came from a slash
// interaction or a prefixed text message.
type Command struct {
	Name CommandName
	Args []string
}

// CommandRequest carries who issued a command and where
type CommandRequest struct {
	ScopeID   string `json:"scope_id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	IsAdmin   bool   `json:"is_admin"`
}

// CommandResult represents the result of processing a command
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
