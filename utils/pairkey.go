package utils

import (
	"github.com/google/uuid"
)

// ConversationPairKey encodes an unordered pair of user IDs canonically so
// the same two users always map to the same key regardless of direction.
func ConversationPairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if as > bs {
		as, bs = bs, as
	}
	return as + ":" + bs
}
