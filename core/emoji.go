package core

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	customEmojiMentionRegex = regexp.MustCompile(`^<(a)?:([A-Za-z0-9_~]+):([0-9]+)>$`)
	customEmojiKeyRegex     = regexp.MustCompile(`^([A-Za-z0-9_~]+):([0-9]+)$`)
	shortcodeRegex          = regexp.MustCompile(`^:[A-Za-z0-9_+\-]+:$`)
)

// Emoji is an emoji as typed by an operator or delivered by the gateway.
// Custom emoji carry a Discord-assigned ID; unicode emoji only have a name.
type Emoji struct {
	Name     string
	ID       string
	Animated bool
}

// Key returns the normalized binding key for the emoji.
func (e Emoji) Key() string {
	return EmojiKey(e.Name, e.ID)
}

// Display renders the emoji the way Discord shows it inside messages.
func (e Emoji) Display() string {
	if e.ID == "" {
		return e.Name
	}
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID + ">"
	}
	return "<:" + e.Name + ":" + e.ID + ">"
}

// EmojiKey is the single normalization rule shared by the write path and the event path:
// custom emoji become "name:id", unicode emoji stay as their raw codepoint string.
func EmojiKey(name, id string) string {
	if id != "" {
		return name + ":" + id
	}
	return name
}

// ParseEmoji parses operator input into an Emoji. Accepted forms are a unicode emoji,
// a custom emoji mention (<:name:id> or <a:name:id>) and a bare name:id key.
func ParseEmoji(text string) (Emoji, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Emoji{}, Validationf("emoji is empty")
	}

	if match := customEmojiMentionRegex.FindStringSubmatch(text); match != nil {
		return Emoji{Name: match[2], ID: match[3], Animated: match[1] == "a"}, nil
	}

	if match := customEmojiKeyRegex.FindStringSubmatch(text); match != nil {
		return Emoji{Name: match[1], ID: match[2]}, nil
	}

	if shortcodeRegex.MatchString(text) {
		return Emoji{}, Validationf("emoji shortcode %s cannot be resolved, paste the emoji itself", text)
	}

	if !isUnicodeEmoji(text) {
		return Emoji{}, Validationf("%q is not a valid emoji", text)
	}

	return Emoji{Name: text}, nil
}

// isUnicodeEmoji accepts a single whitespace-free token that contains at least one
// non-ASCII symbol. Keycap sequences such as "1️⃣" start with an ASCII digit, so pure
// ASCII is the only thing rejected outright.
func isUnicodeEmoji(text string) bool {
	hasSymbol := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			return false
		}
		if r > unicode.MaxASCII {
			hasSymbol = true
		}
	}
	return hasSymbol
}

// EmojiFromKey reverses EmojiKey. Whether a custom emoji was animated is not recoverable from its key.
func EmojiFromKey(key string) Emoji {
	if match := customEmojiKeyRegex.FindStringSubmatch(key); match != nil {
		return Emoji{Name: match[1], ID: match[2]}
	}
	return Emoji{Name: key}
}
