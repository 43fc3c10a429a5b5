package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestConversationPairKeyIsOrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if ConversationPairKey(a, b) != ConversationPairKey(b, a) {
		t.Error("pair key must be identical regardless of argument order")
	}
}

func TestConversationPairKeyDistinguishesPairs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	if ConversationPairKey(a, b) == ConversationPairKey(a, c) {
		t.Error("different pairs must produce different keys")
	}
}
