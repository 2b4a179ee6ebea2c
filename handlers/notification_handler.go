package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
)

func ListNotifications(c *fiber.Ctx) error {
	skip, limit := utils.Pagination(c, 50)
	q := database.DB.Where("user_id = ?", middleware.CurrentIdentity(c).UserID)
	if c.QueryBool("unread_only", false) {
		q = q.Where("is_read = ?", false)
	}

	list := []models.Notification{}
	if err := q.Order("created_at desc").Order("id desc").Offset(skip).Limit(limit).Find(&list).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MarkNotificationRead only finds the caller's own notifications, so other
// users' ids answer 404.
func MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := paramID(c, "notificationId")
	if err != nil {
		return respondError(c, err)
	}

	var n models.Notification
	if err := database.DB.Where("user_id = ?", middleware.CurrentIdentity(c).UserID).
		First(&n, notificationID).Error; err != nil {
		return respondError(c, notFound(err, "notification"))
	}
	if err := database.DB.Model(&n).Update("is_read", true).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
