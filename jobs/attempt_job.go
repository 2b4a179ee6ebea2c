package jobs

import (
	"time"

	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/utils"
	"gorm.io/gorm"
)

const staleAttemptAge = 15 * time.Minute

func CheckForStaleAttempts() {
	utils.Log.Debug("Running job: CheckForStaleAttempts...")
	stale, err := staleAttempts(database.DB, time.Now())
	if err != nil {
		utils.Log.WithError(err).Error("Error checking for stale attempts")
		return
	}
	for _, attempt := range stale {
		utils.Log.WithField("attempt_id", attempt.ID).
			WithField("quiz_id", attempt.QuizID).
			WithField("user_id", attempt.UserID).
			Warn("attempt started but never completed")
	}
}

// staleAttempts finds attempts that were started long ago and never
// completed. Submissions are atomic, so any hit points at rows written
// outside the scorer.
func staleAttempts(db *gorm.DB, now time.Time) ([]models.Attempt, error) {
	var stale []models.Attempt
	err := db.
		Where("completed_at IS NULL AND started_at < ?", now.Add(-staleAttemptAge).UTC()).
		Order("id").
		Find(&stale).Error
	return stale, err
}
