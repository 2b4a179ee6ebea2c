package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anjiri1684/corporate_training/models"
)

var dbCounter int64

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Company{}, &models.User{}, &models.Profile{},
		&models.Course{}, &models.Module{}, &models.Enrollment{},
		&models.Quiz{}, &models.Question{}, &models.Attempt{}, &models.Answer{},
		&models.Notification{}, &models.ChatLog{}, &models.Certificate{},
	))
	return db
}

type fixture struct {
	company    models.Company
	instructor models.User
	student    models.User
	course     models.Course
	quizzes    []models.Quiz
}

// newFixture creates one company, an instructor, a student and an active
// course with one module per quiz.
func newFixture(t *testing.T, db *gorm.DB, quizCount int) fixture {
	t.Helper()
	var f fixture
	f.company = models.Company{Name: "Acme", IsActive: true}
	require.NoError(t, db.Create(&f.company).Error)
	f.instructor = models.User{Email: "teach@acme.test", HashedPassword: "x", Role: models.RoleInstructor, CompanyID: &f.company.ID, IsActive: true}
	require.NoError(t, db.Create(&f.instructor).Error)
	f.student = models.User{Email: "learn@acme.test", HashedPassword: "x", Role: models.RoleStudent, CompanyID: &f.company.ID, IsActive: true}
	require.NoError(t, db.Create(&f.student).Error)
	f.course = models.Course{CompanyID: f.company.ID, Title: "Safety", InstructorID: f.instructor.ID, IsActive: true}
	require.NoError(t, db.Create(&f.course).Error)

	for i := 0; i < quizCount; i++ {
		m := models.Module{CourseID: f.course.ID, Title: fmt.Sprintf("Module %d", i+1), Order: i, IsActive: true}
		require.NoError(t, db.Create(&m).Error)
		q := models.Quiz{ModuleID: m.ID, Title: fmt.Sprintf("Quiz %d", i+1), PassingScore: 18, IsActive: true}
		require.NoError(t, db.Create(&q).Error)
		f.quizzes = append(f.quizzes, q)
	}
	return f
}

func (f fixture) identity(u models.User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}

func recordAttempt(t *testing.T, db *gorm.DB, userID, quizID uint, passed bool) {
	t.Helper()
	a := models.Attempt{UserID: userID, QuizID: quizID, Score: 0, IsPassed: passed}
	if passed {
		a.Score = 20
	}
	require.NoError(t, db.Create(&a).Error)
}
