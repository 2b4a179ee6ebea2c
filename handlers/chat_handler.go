package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/anjiri1684/corporate_training/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ChatMessageRequest struct {
	ReceiverID *uint  `json:"receiver_id"`
	Message    string `json:"message" validate:"required,max=4000"`
}

// storeMessage persists a chat message and pushes it to an online receiver.
func storeMessage(senderID uint, req ChatMessageRequest) (*models.ChatMessage, error) {
	if req.ReceiverID != nil {
		var n int64
		if err := database.DB.Model(&models.User{}).Where("id = ?", *req.ReceiverID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, services.NotFound("receiver")
		}
	}

	msg := models.ChatMessage{SenderID: senderID, ReceiverID: req.ReceiverID, Message: req.Message}
	if err := database.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	if msg.ReceiverID != nil && websocket.Online(*msg.ReceiverID) {
		websocket.Push(*msg.ReceiverID, websocket.TypeChatMessage, msg)
	}
	return &msg, nil
}

func SendMessage(c *fiber.Ctx) error {
	var req ChatMessageRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	msg, err := storeMessage(middleware.CurrentIdentity(c).UserID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetMessages lists the caller's messages, newest first. With receiver_id
// it narrows to the conversation with that user.
func GetMessages(c *fiber.Ctx) error {
	me := middleware.CurrentIdentity(c).UserID
	skip, limit := utils.Pagination(c, 100)

	q := database.DB.Model(&models.ChatMessage{})
	if peer := c.QueryInt("receiver_id", 0); peer > 0 {
		q = q.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", me, peer, peer, me)
	} else {
		q = q.Where("sender_id = ? OR receiver_id = ?", me, me)
	}

	messages := []models.ChatMessage{}
	if err := q.Order("created_at desc").Order("id desc").Offset(skip).Limit(limit).Find(&messages).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeWs expects {"type":"auth","token":"<access token>"} as the first
// frame, then accepts ChatMessageRequest frames.
func ServeWs(c *websocketcontrib.Conn) {
	var auth wsAuthMessage
	if err := c.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}
	claims, err := services.ParseToken(auth.Token, services.TokenTypeAccess)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	id, err := services.IdentityFromClaims(claims)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	log := utils.Log.WithField("user_id", id.UserID)
	client := websocket.NewClient(id.UserID, c)
	go client.WritePump()
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		<-client.Done()
		c.Close()
	}()

	for {
		var req ChatMessageRequest
		if err := c.ReadJSON(&req); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Debug("websocket closed")
			} else {
				log.WithError(err).Debug("websocket read failed")
			}
			return
		}
		if err := validate.Struct(req); err != nil {
			client.Send(websocket.Envelope{Type: websocket.TypeError, Data: fiber.Map{"error": err.Error()}})
			continue
		}
		if _, err := storeMessage(id.UserID, req); err != nil {
			log.WithFields(logrus.Fields{"receiver_id": req.ReceiverID}).WithError(err).Warn("websocket message rejected")
			client.Send(websocket.Envelope{Type: websocket.TypeError, Data: fiber.Map{"error": "Failed to save message"}})
		}
	}
}
