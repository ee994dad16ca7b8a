package chat

import "strings"

// FormatWithPlayerName prefixes a message with the speaking player's name
// so the model can tell party members apart in a shared room. A message
// that already carries a "Speaker: " prefix is left alone; a colon later
// in the sentence is an acceptable false positive.
func FormatWithPlayerName(message, playerName string) string {
	idx := strings.Index(message, ":")
	if idx > 0 {
		speaker := strings.TrimSpace(message[:idx])
		if speaker != "" && !strings.ContainsAny(speaker, ".!?\n") {
			return message
		}
	}
	return playerName + ": " + message
}
