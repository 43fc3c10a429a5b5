package handlers

import (
	"log"
	"strings"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/models"
	wsocket "github.com/smartbuddy/smartbuddy/websocket"
)

type socketMessage struct {
	Event          string `json:"event"`
	Token          string `json:"token"`
	ConversationID string `json:"conversationId"`
	Text           string `json:"text"`
	ClientKey      string `json:"clientKey"`
}

// ServeWs runs one client's realtime session: an authenticate frame first,
// then chat events until the connection drops. Handler errors are logged and
// swallowed; they never take the session down.
func ServeWs(reg *wsocket.Registry) func(*websocketcontrib.Conn) {
	return func(c *websocketcontrib.Conn) {
		var authMsg socketMessage
		if err := c.ReadJSON(&authMsg); err != nil || authMsg.Event != "authenticate" {
			_ = c.WriteJSON(wsocket.Envelope{Event: "unauthorized", Data: fiber.Map{"message": "Expected an authenticate event."}})
			c.Close()
			return
		}

		claims, err := parseToken(authMsg.Token)
		if err != nil {
			log.Printf("WebSocket auth failed: %v", err)
			_ = c.WriteJSON(wsocket.Envelope{Event: "unauthorized", Data: fiber.Map{"message": "JWT invalid."}})
			c.Close()
			return
		}
		rawID, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(rawID)
		if err != nil {
			_ = c.WriteJSON(wsocket.Envelope{Event: "unauthorized", Data: fiber.Map{"message": "Invalid user ID."}})
			c.Close()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			_ = c.WriteJSON(wsocket.Envelope{Event: "unauthorized", Data: fiber.Map{"message": "Invalid user."}})
			c.Close()
			return
		}

		reg.Register(userID, c)
		defer func() {
			reg.Unregister(userID, c)
			c.Close()
		}()
		_ = c.WriteJSON(wsocket.Envelope{Event: "authenticated", Data: fiber.Map{"userId": userID}})
		log.Printf("WebSocket client authenticated: %s", userID)

		for {
			var msg socketMessage
			if err := c.ReadJSON(&msg); err != nil {
				if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
					log.Printf("WebSocket closed for client %s: %v", userID, err)
				} else {
					log.Printf("WebSocket read error for client %s: %v", userID, err)
				}
				break
			}

			switch msg.Event {
			case "join_conversation":
				handleJoinConversation(reg, c, userID, msg)
			case "send_message":
				handleSocketSend(reg, userID, msg)
			case "typing":
				emitTyping(reg, userID, msg, "user_typing")
			case "stop_typing":
				emitTyping(reg, userID, msg, "user_stop_typing")
			case "mark_read":
				handleMarkRead(reg, userID, msg)
			default:
				log.Printf("Unknown socket event %q from client %s", msg.Event, userID)
			}
		}
	}
}

// conversationForMember resolves the conversation and verifies membership;
// any failure is logged and reported as absent, mirroring the gateway's
// swallow-everything error policy.
func conversationForMember(userID uuid.UUID, rawConversationID string) (*models.Conversation, bool) {
	conversationID, err := uuid.Parse(rawConversationID)
	if err != nil {
		return nil, false
	}
	var conversation models.Conversation
	if err := database.DB.Preload("Participants").First(&conversation, "id = ?", conversationID).Error; err != nil {
		log.Printf("[Socket] Conversation %s not found: %v", rawConversationID, err)
		return nil, false
	}
	if !conversation.HasParticipant(userID) {
		return nil, false
	}
	return &conversation, true
}

func handleJoinConversation(reg *wsocket.Registry, conn wsocket.Conn, userID uuid.UUID, msg socketMessage) {
	conversation, ok := conversationForMember(userID, msg.ConversationID)
	if !ok {
		return
	}
	reg.JoinRoom(conversation.ID, userID, conn)
	log.Printf("User %s joined convo %s", userID, conversation.ID)
}

// handleSocketSend is the immediate half of the double-write strategy; the
// client also POSTs the same message (same client key) for durability.
func handleSocketSend(reg *wsocket.Registry, userID uuid.UUID, msg socketMessage) {
	conversation, ok := conversationForMember(userID, msg.ConversationID)
	if !ok {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" || messageTooLong(text) || len(msg.ClientKey) > maxClientKeyLength {
		return
	}

	message, createdNew, err := persistMessage(conversation, userID, text, msg.ClientKey)
	if err != nil {
		log.Printf("[Socket][send_message] %v", err)
		return
	}
	if createdNew {
		reg.EmitToRoom(conversation.ID, "receive_message", fiber.Map{"message": messagePayload(message, false)})
	}
}

func emitTyping(reg *wsocket.Registry, userID uuid.UUID, msg socketMessage, event string) {
	conversationID, err := uuid.Parse(msg.ConversationID)
	if err != nil {
		return
	}
	reg.EmitToRoom(conversationID, event, fiber.Map{
		"conversationId": conversationID,
		"userId":         userID,
	})
}

// readReceiptTargets picks the rows a reader's receipt flips: the other
// participant's undelivered messages, never the reader's own.
func readReceiptTargets(msgs []models.Message, readerID uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(msgs))
	for _, m := range msgs {
		if m.SenderID != readerID && !m.Delivered {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// handleMarkRead flips delivered on the other participant's messages only,
// then broadcasts the read receipt to the room.
func handleMarkRead(reg *wsocket.Registry, userID uuid.UUID, msg socketMessage) {
	conversation, ok := conversationForMember(userID, msg.ConversationID)
	if !ok {
		return
	}

	var undelivered []models.Message
	err := database.DB.
		Where("conversation_id = ? AND delivered = false", conversation.ID).
		Find(&undelivered).Error
	if err != nil {
		log.Printf("[Socket][mark_read] %v", err)
		return
	}

	if ids := readReceiptTargets(undelivered, userID); len(ids) > 0 {
		err := database.DB.Model(&models.Message{}).
			Where("id IN ?", ids).
			Update("delivered", true).Error
		if err != nil {
			log.Printf("[Socket][mark_read] %v", err)
			return
		}
	}

	reg.EmitToRoom(conversation.ID, "read_receipt", fiber.Map{
		"conversationId": conversation.ID,
		"readerId":       userID,
	})
}
