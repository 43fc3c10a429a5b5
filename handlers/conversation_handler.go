package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	wsocket "github.com/smartbuddy/smartbuddy/websocket"
	"gorm.io/gorm"
)

const (
	maxMessageLength   = 2000
	maxClientKeyLength = 64
	defaultPageSize    = 50
)

// messageTooLong measures in runes, matching how clients count characters.
func messageTooLong(text string) bool {
	return utf8.RuneCountInString(text) > maxMessageLength
}

func messagePayload(m *models.Message, isSelf bool) fiber.Map {
	return fiber.Map{
		"id":             m.ID,
		"conversationId": m.ConversationID,
		"sender":         m.SenderID,
		"text":           m.Text,
		"delivered":      m.Delivered,
		"createdAt":      m.CreatedAt,
		"isSelf":         isSelf,
	}
}

// ListConversations returns the caller's conversations, most recently active
// first, each with undelivered-message counts split by direction.
func ListConversations(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var conversations []models.Conversation
	err := database.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Preload("Participants").
		Order("conversations.updated_at desc").
		Find(&conversations).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch conversations."})
	}

	ids := make([]uuid.UUID, 0, len(conversations))
	for _, convo := range conversations {
		ids = append(ids, convo.ID)
	}

	incoming, err := undeliveredCounts(ids, userID, false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch conversations."})
	}
	outgoing, err := undeliveredCounts(ids, userID, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch conversations."})
	}

	payload := make([]fiber.Map, 0, len(conversations))
	for _, convo := range conversations {
		participants := make([]fiber.Map, 0, len(convo.Participants))
		for _, p := range convo.Participants {
			participants = append(participants, fiber.Map{"id": p.ID, "name": p.Name})
		}
		payload = append(payload, fiber.Map{
			"id":             convo.ID,
			"participants":   participants,
			"lastMessage":    convo.LastMessage,
			"createdAt":      convo.CreatedAt,
			"updatedAt":      convo.UpdatedAt,
			"unreadIncoming": incoming[convo.ID],
			"unreadOutgoing": outgoing[convo.ID],
		})
	}
	return c.JSON(fiber.Map{"conversations": payload})
}

func undeliveredCounts(conversationIDs []uuid.UUID, userID uuid.UUID, sentByUser bool) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return counts, nil
	}

	senderCond := "sender_id <> ?"
	if sentByUser {
		senderCond = "sender_id = ?"
	}

	var rows []struct {
		ConversationID uuid.UUID
		Count          int
	}
	err := database.DB.Model(&models.Message{}).
		Select("conversation_id, count(*) as count").
		Where("conversation_id IN ? AND delivered = false AND "+senderCond, conversationIDs, userID).
		Group("conversation_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ConversationID] = row.Count
	}
	return counts, nil
}

func loadConversationForUser(c *fiber.Ctx, userID uuid.UUID) (*models.Conversation, error) {
	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid conversation id."})
	}

	var conversation models.Conversation
	if err := database.DB.Preload("Participants").First(&conversation, "id = ?", conversationID).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Conversation not found."})
	}
	if !conversation.HasParticipant(userID) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not a participant of this conversation."})
	}
	return &conversation, nil
}

// GetConversationMessages pages newest-first internally and reverses the
// page, so clients render oldest-to-newest.
func GetConversationMessages(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	conversation, handled := loadConversationForUser(c, userID)
	if conversation == nil {
		return handled
	}

	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if skip < 0 {
		skip = 0
	}

	var page []models.Message
	err := database.DB.
		Where("conversation_id = ?", conversation.ID).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&page).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch messages."})
	}

	messages := make([]fiber.Map, 0, len(page))
	for i := len(page) - 1; i >= 0; i-- {
		messages = append(messages, messagePayload(&page[i], page[i].SenderID == userID))
	}
	return c.JSON(fiber.Map{"messages": messages})
}

type SendMessageRequest struct {
	Text      string `json:"text"`
	ClientKey string `json:"clientKey"`
}

// SendMessage is the durable REST half of the double-write delivery strategy;
// the optional client key collapses a racing socket send into the same row.
func SendMessage(notify wsocket.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var req SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
		}
		text := strings.TrimSpace(req.Text)
		if text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Message cannot be empty."})
		}
		if messageTooLong(text) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Message too long (max 2000)."})
		}
		if len(req.ClientKey) > maxClientKeyLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Client key too long."})
		}

		conversation, handled := loadConversationForUser(c, userID)
		if conversation == nil {
			return handled
		}

		message, createdNew, err := persistMessage(conversation, userID, text, req.ClientKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to send message."})
		}

		if createdNew {
			if other, ok := conversation.OtherParticipant(userID); ok {
				notified := notify.TryDeliver(other, "chat_message", fiber.Map{"message": messagePayload(message, false)})
				log.Printf("[Message] %s sent in convo %s from %s -> %s, notified: %v",
					message.ID, conversation.ID, userID, other, notified)
			}
		}

		return c.JSON(fiber.Map{"message": messagePayload(message, true)})
	}
}

// persistMessage saves a message and updates the conversation's denormalized
// last-message text. A duplicate client key means the other delivery path won
// the race; the already-persisted row is returned instead.
func persistMessage(conversation *models.Conversation, senderID uuid.UUID, text, clientKey string) (*models.Message, bool, error) {
	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Text:           text,
		ClientKey:      clientKey,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		if clientKey != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Message
			findErr := database.DB.
				Where("conversation_id = ? AND client_key = ?", conversation.ID, clientKey).
				First(&existing).Error
			if findErr != nil {
				return nil, false, findErr
			}
			return &existing, false, nil
		}
		return nil, false, err
	}

	err := database.DB.Model(conversation).Update("last_message", text).Error
	if err != nil {
		log.Printf("[Message] Failed to update last message for convo %s: %v", conversation.ID, err)
	}
	return &message, true, nil
}
