package services

import (
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultCompanyName = "Main Company"

type NewCourse struct {
	Title        string
	Description  *string
	InstructorID *uint
}

// CreateCourse resolves the instructor and owning company for a new course.
// A caller without a company borrows the first active one, or a default
// company is created, unless the caller is a company admin.
func CreateCourse(db *gorm.DB, id Identity, in NewCourse) (*models.Course, error) {
	instructorID := id.UserID
	if in.InstructorID != nil && *in.InstructorID != id.UserID {
		var instructor models.User
		if err := db.First(&instructor, *in.InstructorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NotFound("instructor")
			}
			return nil, persistence("load instructor", err)
		}
		if !id.IsSystemAdmin() && !sameCompany(instructor.CompanyID, id.CompanyID) {
			return nil, Forbidden("the instructor must belong to your company")
		}
		instructorID = instructor.ID
	}

	var course models.Course
	err := db.Transaction(func(tx *gorm.DB) error {
		companyID, err := resolveCourseCompany(tx, id)
		if err != nil {
			return err
		}
		course = models.Course{
			CompanyID:    companyID,
			Title:        in.Title,
			Description:  in.Description,
			InstructorID: instructorID,
			IsActive:     true,
		}
		if err := tx.Create(&course).Error; err != nil {
			return persistence("create course", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Log.WithFields(logrus.Fields{
		"course_id":     course.ID,
		"company_id":    course.CompanyID,
		"instructor_id": course.InstructorID,
	}).Info("course created")
	return &course, nil
}

func resolveCourseCompany(tx *gorm.DB, id Identity) (uint, error) {
	if id.CompanyID != nil {
		return *id.CompanyID, nil
	}
	if !id.HasRole(models.RoleSystemAdmin, models.RoleInstructor) {
		return 0, Invalid("you must belong to a company to create courses")
	}

	var company models.Company
	err := tx.Where("is_active = ?", true).Order("id").First(&company).Error
	switch {
	case err == nil:
		return company.ID, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, persistence("find default company", err)
	}

	desc := "Default company"
	company = models.Company{Name: defaultCompanyName, Description: &desc, IsActive: true}
	if err := tx.Create(&company).Error; err != nil {
		return 0, persistence("create default company", err)
	}
	utils.Log.WithField("company_id", company.ID).Info("default company created")
	return company.ID, nil
}

func sameCompany(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}

// VisibleCourses applies the per-role course listing rules.
func VisibleCourses(db *gorm.DB, id Identity, skip, limit int) ([]models.Course, error) {
	q := db.Model(&models.Course{}).Where("is_active = ?", true)

	switch id.Role {
	case models.RoleSystemAdmin, models.RoleStudent:
	case models.RoleInstructor:
		if id.CompanyID != nil {
			q = q.Where("company_id = ? OR instructor_id = ?", *id.CompanyID, id.UserID)
		} else {
			q = q.Where("instructor_id = ?", id.UserID)
		}
	default:
		if id.CompanyID == nil {
			return []models.Course{}, nil
		}
		q = q.Where("company_id = ?", *id.CompanyID)
	}

	courses := []models.Course{}
	if err := q.Order("id").Offset(skip).Limit(limit).Find(&courses).Error; err != nil {
		return nil, persistence("list courses", err)
	}
	return courses, nil
}

type Progress struct {
	PassedQuizzes int     `json:"passed_quizzes"`
	TotalQuizzes  int     `json:"total_quizzes"`
	Progress      float64 `json:"progress"`
}

// activeQuizIDs returns the active quizzes of the course's active modules.
func activeQuizIDs(db *gorm.DB, courseID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Quiz{}).
		Joins("JOIN modules ON modules.id = quizzes.module_id").
		Where("modules.course_id = ? AND modules.is_active = ? AND quizzes.is_active = ?", courseID, true, true).
		Order("quizzes.id").
		Pluck("quizzes.id", &ids).Error
	return ids, err
}

func passedQuizIDs(db *gorm.DB, userID uint, quizIDs []uint) (map[uint]bool, error) {
	passed := make(map[uint]bool)
	if len(quizIDs) == 0 {
		return passed, nil
	}
	var ids []uint
	err := db.Model(&models.Attempt{}).
		Distinct("quiz_id").
		Where("user_id = ? AND is_passed = ? AND quiz_id IN ?", userID, true, quizIDs).
		Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		passed[id] = true
	}
	return passed, nil
}

// CourseProgressFor counts the active quizzes of a course the user has passed.
func CourseProgressFor(db *gorm.DB, userID, courseID uint) (Progress, error) {
	quizIDs, err := activeQuizIDs(db, courseID)
	if err != nil {
		return Progress{}, persistence("load course quizzes", err)
	}
	passed, err := passedQuizIDs(db, userID, quizIDs)
	if err != nil {
		return Progress{}, persistence("load passed attempts", err)
	}
	return Progress{
		PassedQuizzes: len(passed),
		TotalQuizzes:  len(quizIDs),
		Progress:      CourseProgress(len(passed), len(quizIDs)),
	}, nil
}

// Enroll registers the user on an active course once.
func Enroll(db *gorm.DB, userID uint, course models.Course) (*models.Enrollment, error) {
	if !course.IsActive {
		return nil, Invalid("course is not available")
	}
	var existing int64
	if err := db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, course.ID).
		Count(&existing).Error; err != nil {
		return nil, persistence("check enrollment", err)
	}
	if existing > 0 {
		return nil, Invalid("already enrolled in this course")
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: course.ID}
	if err := db.Create(&enrollment).Error; err != nil {
		return nil, persistence("create enrollment", err)
	}
	return &enrollment, nil
}
