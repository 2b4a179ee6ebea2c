package jobs

import (
	"fmt"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func SendEventReminders() {
	utils.Log.Debug("Running job: SendEventReminders...")
	sent, err := sendEventReminders(database.DB, time.Now(), config.Duration("REMINDER_LEAD"))
	if err != nil {
		utils.Log.WithError(err).Error("Error checking for upcoming events")
		return
	}
	if sent > 0 {
		utils.Log.Infof("Sent reminders for %d event(s).", sent)
	}
}

// sendEventReminders notifies every active member of the event's company
// once per event starting within lead of now.
func sendEventReminders(db *gorm.DB, now time.Time, lead time.Duration) (int, error) {
	var upcoming []models.Event
	err := db.
		Where("reminder_sent = ? AND start_time BETWEEN ? AND ?", false, now.UTC(), now.Add(lead).UTC()).
		Order("start_time").
		Find(&upcoming).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range upcoming {
		var members []models.User
		if err := db.Select("id").Where("company_id = ? AND is_active = ?", event.CompanyID, true).Find(&members).Error; err != nil {
			return sent, err
		}

		link := fmt.Sprintf("%s/events/%d", config.Config("FRONTEND_URL"), event.ID)
		message := fmt.Sprintf("%s starts at %s.", event.Title, event.StartTime.UTC().Format("Jan 2, 15:04 MST"))
		for _, member := range members {
			_, err := services.Notify(db, services.NotificationInput{
				UserID:  member.ID,
				Type:    models.NotificationEvent,
				Title:   "Reminder: " + event.Title,
				Message: message,
				Link:    &link,
				Email:   true,
			})
			if err != nil {
				utils.Log.WithFields(logrus.Fields{"event_id": event.ID, "user_id": member.ID}).
					WithError(err).Warn("event reminder not stored")
			}
		}

		if err := db.Model(&models.Event{}).Where("id = ?", event.ID).Update("reminder_sent", true).Error; err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
