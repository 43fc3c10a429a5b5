package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/models"
)

func TestReadReceiptTargetsSkipTheReadersOwnMessages(t *testing.T) {
	reader := uuid.New()
	other := uuid.New()

	theirs := models.Message{ID: uuid.New(), SenderID: other}
	mine := models.Message{ID: uuid.New(), SenderID: reader}
	alreadyRead := models.Message{ID: uuid.New(), SenderID: other, Delivered: true}

	ids := readReceiptTargets([]models.Message{theirs, mine, alreadyRead}, reader)
	if len(ids) != 1 || ids[0] != theirs.ID {
		t.Errorf("expected only the counterpart's undelivered message, got %v", ids)
	}
}

func TestReadReceiptTargetsEmptyConversation(t *testing.T) {
	if ids := readReceiptTargets(nil, uuid.New()); len(ids) != 0 {
		t.Errorf("expected no targets, got %v", ids)
	}
}
