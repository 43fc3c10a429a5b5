package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	"github.com/smartbuddy/smartbuddy/services"
	"github.com/smartbuddy/smartbuddy/utils"
	wsocket "github.com/smartbuddy/smartbuddy/websocket"
	"gorm.io/gorm"
)

const (
	maxPendingOutgoing    = 5
	requestAcceptedXP     = 15
	conversationCreatedXP = 10
)

// pendingLimitReached caps how many outgoing requests a sender may have
// pending at once.
func pendingLimitReached(outgoing int64) bool {
	return outgoing >= maxPendingOutgoing
}

// requestTransition resolves the one-way pending -> accepted|rejected state
// machine. ok is false once the request has left pending; terminal states
// never move again.
func requestTransition(current, action string) (string, bool) {
	if current != models.RequestPending {
		return current, false
	}
	if action == "reject" {
		return models.RequestRejected, true
	}
	return models.RequestAccepted, true
}

func requestPayload(req *models.ConnectionRequest) fiber.Map {
	payload := fiber.Map{
		"id":        req.ID,
		"from":      req.FromID,
		"to":        req.ToID,
		"status":    req.Status,
		"message":   req.Message,
		"createdAt": req.CreatedAt,
	}
	if req.From.ID != uuid.Nil {
		payload["from"] = fiber.Map{"id": req.From.ID, "name": req.From.Name}
	}
	if req.To.ID != uuid.Nil {
		payload["to"] = fiber.Map{"id": req.To.ID, "name": req.To.Name}
	}
	return payload
}

type SendRequestRequest struct {
	ToUserID string `json:"toUserId" validate:"required,uuid"`
	Message  string `json:"message" validate:"max=256"`
}

// SendConnectionRequest creates a pending request and pushes a best-effort
// notification to the recipient. The partial unique index on pending
// (from,to) pairs turns a duplicate into a 409 even under races.
func SendConnectionRequest(notify wsocket.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := middleware.UserID(c)

		var req SendRequestRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
		}
		toUserID, _ := uuid.Parse(req.ToUserID)

		if toUserID == from {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot send request to yourself."})
		}

		var recipient models.User
		if err := database.DB.First(&recipient, "id = ?", toUserID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Recipient not found."})
		}

		var pendingCount int64
		err := database.DB.Model(&models.ConnectionRequest{}).
			Where("from_id = ? AND status = ?", from, models.RequestPending).
			Count(&pendingCount).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create request."})
		}
		if pendingLimitReached(pendingCount) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Max 5 outgoing pending requests allowed.",
			})
		}

		request := models.ConnectionRequest{
			FromID:  from,
			ToID:    toUserID,
			Status:  models.RequestPending,
			Message: req.Message,
		}
		if err := database.DB.Create(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Request already pending."})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create request."})
		}

		notified := notify.TryDeliver(toUserID, "notification", fiber.Map{
			"type":      "request",
			"requestId": request.ID,
			"from":      from,
			"message":   request.Message,
		})
		log.Printf("[ConnectionRequest] Request %s created from %s -> %s, notified: %v", request.ID, from, toUserID, notified)

		return c.JSON(fiber.Map{
			"request":  requestPayload(&request),
			"notified": notified,
		})
	}
}

func ListConnectionRequests(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	status := c.Query("status", models.RequestPending)
	role := c.Query("role", "to")

	query := database.DB.Preload("From").Preload("To").Where("status = ?", status)
	switch role {
	case "from":
		query = query.Where("from_id = ?", userID)
	case "any":
		query = query.Where("from_id = ? OR to_id = ?", userID, userID)
	default:
		query = query.Where("to_id = ?", userID)
	}

	var requests []models.ConnectionRequest
	if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch requests."})
	}

	payload := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		payload = append(payload, requestPayload(&requests[i]))
	}
	return c.JSON(fiber.Map{"requests": payload})
}

type RespondRequest struct {
	RequestID string `json:"requestId" validate:"required,uuid"`
	Action    string `json:"action" validate:"required,oneof=accept reject"`
}

// RespondToRequest drives the pending -> accepted|rejected transition. Only
// the recipient may respond and only while the request is still pending; the
// conditional update makes the terminal state win exactly once under races.
func RespondToRequest(notify wsocket.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var req RespondRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Action must be 'accept' or 'reject'."})
		}
		requestID, _ := uuid.Parse(req.RequestID)

		var request models.ConnectionRequest
		if err := database.DB.First(&request, "id = ?", requestID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Request not found."})
		}
		if request.ToID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized for this request."})
		}
		newStatus, ok := requestTransition(request.Status, req.Action)
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Request already " + request.Status + "."})
		}
		res := database.DB.Model(&models.ConnectionRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestPending).
			Update("status", newStatus)
		if res.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to handle request."})
		}
		if res.RowsAffected == 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Request already handled."})
		}
		request.Status = newStatus

		if newStatus == models.RequestRejected {
			notified := notify.TryDeliver(request.FromID, "request_update", fiber.Map{"request": requestPayload(&request)})
			log.Printf("[ConnectionRequest] %s rejected. Notified sender: %v", request.ID, notified)
			return c.JSON(fiber.Map{
				"request":      requestPayload(&request),
				"conversation": nil,
				"notified":     notified,
			})
		}

		conversation, created, err := findOrCreateConversation(request.FromID, request.ToID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to handle request."})
		}

		// XP grants are best-effort; their failure never aborts the accept.
		if _, _, err := services.AwardXPOnce(request.FromID, models.XPActionRequestAccepted, request.ID.String(),
			requestAcceptedXP, "Connection Request Accepted"); err != nil {
			log.Printf("[ConnectionRequest] Failed to award accept XP: %v", err)
		}
		if created {
			for _, participant := range []uuid.UUID{request.FromID, request.ToID} {
				if _, _, err := services.AwardXPOnce(participant, models.XPActionConversation, conversation.ID.String(),
					conversationCreatedXP, "Conversation Created"); err != nil {
					log.Printf("[ConnectionRequest] Failed to award conversation XP: %v", err)
				}
			}
		}

		notified := notify.TryDeliver(request.FromID, "request_update", fiber.Map{"request": requestPayload(&request)})
		notify.TryDeliver(request.FromID, "conversation_created", fiber.Map{"conversationId": conversation.ID})
		notify.TryDeliver(request.ToID, "request_update", fiber.Map{"request": requestPayload(&request)})
		notify.TryDeliver(request.ToID, "conversation_created", fiber.Map{"conversationId": conversation.ID})
		log.Printf("[ConnectionRequest] %s accepted. Conversation: %s", request.ID, conversation.ID)

		return c.JSON(fiber.Map{
			"request":      requestPayload(&request),
			"conversation": conversation,
			"notified":     notified,
		})
	}
}

// findOrCreateConversation reuses the conversation for the unordered pair if
// one exists. Creation races on the pair key resolve by refetching the
// winner, so the pair can never end up with two conversations.
func findOrCreateConversation(a, b uuid.UUID) (*models.Conversation, bool, error) {
	pairKey := utils.ConversationPairKey(a, b)

	var conversation models.Conversation
	err := database.DB.Where("pair_key = ?", pairKey).First(&conversation).Error
	if err == nil {
		return &conversation, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var userA, userB models.User
	if err := database.DB.First(&userA, "id = ?", a).Error; err != nil {
		return nil, false, err
	}
	if err := database.DB.First(&userB, "id = ?", b).Error; err != nil {
		return nil, false, err
	}

	conversation = models.Conversation{
		PairKey:      pairKey,
		Participants: []*models.User{&userA, &userB},
	}
	if err := database.DB.Create(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Conversation
			if err := database.DB.Where("pair_key = ?", pairKey).First(&existing).Error; err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &conversation, true, nil
}
