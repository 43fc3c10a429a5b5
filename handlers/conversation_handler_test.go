package handlers

import (
	"strings"
	"testing"
)

func TestMessageTooLongCountsRunesNotBytes(t *testing.T) {
	// 2000 two-byte runes: 4000 bytes, but a valid message.
	if messageTooLong(strings.Repeat("é", maxMessageLength)) {
		t.Error("a message of exactly the rune limit must be accepted")
	}
	if !messageTooLong(strings.Repeat("é", maxMessageLength+1)) {
		t.Error("a message one rune over the limit must be rejected")
	}
	if messageTooLong(strings.Repeat("a", maxMessageLength)) {
		t.Error("an ASCII message of exactly the limit must be accepted")
	}
}
