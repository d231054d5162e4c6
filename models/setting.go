package models

import (
	"time"

	"github.com/lib/pq"
)

// SettingType represents the type of setting value
type SettingType string

const (
	SettingTypeBool      SettingType = "bool"
	SettingTypeStringArr SettingType = "stringarr"
)

const (
	SettingKeyBlockedUserIDs = "reactions/blocked_user_ids"
	SettingKeyAuditDisabled  = "audit/disabled"
)

// SettingKeyDefinition defines a supported setting key with its expected type
type SettingKeyDefinition struct {
	Key  string
	Type SettingType
}

// SupportedSettings is the registry of all supported setting keys with their types
var SupportedSettings = map[string]SettingKeyDefinition{
	SettingKeyBlockedUserIDs: {
		Key:  SettingKeyBlockedUserIDs,
		Type: SettingTypeStringArr,
	},
	SettingKeyAuditDisabled: {
		Key:  SettingKeyAuditDisabled,
		Type: SettingTypeBool,
	},
}

// Setting is a versioned per-scope configuration record. Version increases on every write.
type Setting struct {
	ID             string         `json:"id"                        db:"id"`
	ScopeID        string         `json:"scope_id"                  db:"scope_id"`
	Key            string         `json:"key"                       db:"key"`
	ValueBoolean   *bool          `json:"value_boolean,omitempty"   db:"value_boolean"`
	ValueStringArr pq.StringArray `json:"value_stringarr,omitempty" db:"value_stringarr"`
	Version        int64          `json:"version"                   db:"version"`
	CreatedAt      time.Time      `json:"created_at"                db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"                db:"updated_at"`
}
