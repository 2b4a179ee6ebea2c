package services

import (
	"fmt"

	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/notifications"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/anjiri1684/corporate_training/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationInput struct {
	UserID  uint
	Type    string
	Title   string
	Message string
	Link    *string
	// Email also sends the notification to the user's address.
	Email bool
}

// Notify stores a notification, pushes it to the user's open websocket and
// optionally emails it. Only the row write can fail the call.
func Notify(db *gorm.DB, in NotificationInput) (*models.Notification, error) {
	n := models.Notification{
		UserID:           in.UserID,
		NotificationType: in.Type,
		Title:            in.Title,
		Message:          in.Message,
		Link:             in.Link,
	}
	if err := db.Create(&n).Error; err != nil {
		return nil, persistence("create notification", err)
	}

	websocket.Push(n.UserID, websocket.TypeNotification, n)

	if in.Email {
		var user models.User
		if err := db.Select("id", "email").First(&user, in.UserID).Error; err != nil {
			utils.Log.WithFields(logrus.Fields{"user_id": in.UserID, "notification_id": n.ID}).
				WithError(err).Warn("notification email skipped, user lookup failed")
			return &n, nil
		}
		go notifications.SendEmail("", user.Email, n.Title, notificationHTML(n))
	}
	return &n, nil
}

func notificationHTML(n models.Notification) string {
	body := fmt.Sprintf("<h1>%s</h1><p>%s</p>", n.Title, n.Message)
	if n.Link != nil {
		body += fmt.Sprintf("<p><a href='%s'>Open</a></p>", *n.Link)
	}
	return body
}
