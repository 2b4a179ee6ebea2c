package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardAnalyticsResponse struct {
	TotalStudents      int64            `json:"total_students"`
	TotalInstructors   int64            `json:"total_instructors"`
	ActiveCourses      int64            `json:"active_courses"`
	Enrollments        int64            `json:"enrollments"`
	AttemptsLast30Days int64            `json:"attempts_last_30_days"`
	PassRate           float64          `json:"pass_rate"`
	RecentAttempts     []models.Attempt `json:"recent_attempts"`
}

// companyScope limits a query on a table with company_id to the caller's
// company. System admins without a company_id query param see everything.
func companyScope(c *fiber.Ctx, column string) func(*gorm.DB) *gorm.DB {
	id := middleware.CurrentIdentity(c)
	companyID := id.CompanyID
	if id.IsSystemAdmin() {
		companyID = nil
		if q := uint(c.QueryInt("company_id", 0)); q > 0 {
			companyID = &q
		}
	}
	return func(db *gorm.DB) *gorm.DB {
		if companyID == nil {
			if id.IsSystemAdmin() {
				return db
			}
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", *companyID)
	}
}

func courseAttempts(c *fiber.Ctx) *gorm.DB {
	return database.DB.Model(&models.Attempt{}).
		Joins("JOIN quizzes ON quizzes.id = attempts.quiz_id").
		Joins("JOIN modules ON modules.id = quizzes.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Scopes(companyScope(c, "courses.company_id"))
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse
	users := companyScope(c, "company_id")

	if err := database.DB.Model(&models.User{}).Scopes(users).
		Where("role = ?", models.RoleStudent).Count(&response.TotalStudents).Error; err != nil {
		return respondError(c, err)
	}
	if err := database.DB.Model(&models.User{}).Scopes(users).
		Where("role = ?", models.RoleInstructor).Count(&response.TotalInstructors).Error; err != nil {
		return respondError(c, err)
	}
	if err := database.DB.Model(&models.Course{}).Scopes(users).
		Where("is_active = ?", true).Count(&response.ActiveCourses).Error; err != nil {
		return respondError(c, err)
	}
	if err := database.DB.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Scopes(companyScope(c, "courses.company_id")).
		Count(&response.Enrollments).Error; err != nil {
		return respondError(c, err)
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := courseAttempts(c).Where("attempts.started_at > ?", thirtyDaysAgo).
		Count(&response.AttemptsLast30Days).Error; err != nil {
		return respondError(c, err)
	}
	var passed int64
	if err := courseAttempts(c).Where("attempts.started_at > ? AND attempts.is_passed = ?", thirtyDaysAgo, true).
		Count(&passed).Error; err != nil {
		return respondError(c, err)
	}
	if response.AttemptsLast30Days > 0 {
		response.PassRate = float64(passed) / float64(response.AttemptsLast30Days) * 100
	}

	response.RecentAttempts = []models.Attempt{}
	if err := courseAttempts(c).Select("attempts.*").
		Order("attempts.started_at desc").Limit(5).
		Find(&response.RecentAttempts).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

type LeaderboardUser struct {
	UserID        uint    `json:"user_id"`
	Email         string  `json:"email"`
	PassedQuizzes int     `json:"passed_quizzes"`
	AverageScore  float64 `json:"average_score"`
}

// GetLeaderboard ranks the company's users by distinct quizzes passed.
func GetLeaderboard(c *fiber.Ctx) error {
	leaderboard := []LeaderboardUser{}
	err := courseAttempts(c).
		Joins("JOIN users ON users.id = attempts.user_id").
		Where("attempts.completed_at IS NOT NULL").
		Select("attempts.user_id AS user_id, users.email AS email, " +
			"COUNT(DISTINCT CASE WHEN attempts.is_passed THEN attempts.quiz_id END) AS passed_quizzes, " +
			"AVG(attempts.score) AS average_score").
		Group("attempts.user_id, users.email").
		Order("passed_quizzes desc").Order("average_score desc").
		Limit(10).
		Scan(&leaderboard).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve leaderboard"})
	}
	return c.JSON(leaderboard)
}

type attemptReportRow struct {
	AttemptID   uint
	Email       string
	CourseTitle string
	QuizTitle   string
	Score       float64
	IsPassed    bool
	StartedAt   time.Time
	CompletedAt *time.Time
}

func GenerateAttemptReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format. Use YYYY-MM-DD."})
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format. Use YYYY-MM-DD."})
	}
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	var rows []attemptReportRow
	err = courseAttempts(c).
		Joins("JOIN users ON users.id = attempts.user_id").
		Where("attempts.started_at BETWEEN ? AND ?", startDate, endDate).
		Select("attempts.id AS attempt_id, users.email AS email, courses.title AS course_title, " +
			"quizzes.title AS quiz_title, attempts.score AS score, attempts.is_passed AS is_passed, " +
			"attempts.started_at AS started_at, attempts.completed_at AS completed_at").
		Order("attempts.started_at desc").
		Scan(&rows).Error
	if err != nil {
		return respondError(c, err)
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Attempt ID", "Started", "Completed", "User", "Course", "Quiz", "Score", "Passed"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}
	for _, r := range rows {
		completed := ""
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04")
		}
		row := []string{
			fmt.Sprint(r.AttemptID),
			r.StartedAt.Format("2006-01-02 15:04"),
			completed,
			r.Email,
			r.CourseTitle,
			r.QuizTitle,
			fmt.Sprintf("%.2f", r.Score),
			fmt.Sprint(r.IsPassed),
		}
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"attempts_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))
	return c.Send(b.Bytes())
}
