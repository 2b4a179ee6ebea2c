package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Description  *string `json:"description"`
	InstructorID *uint   `json:"instructor_id"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateCourseRequest) changes() map[string]interface{} {
	out := make(map[string]interface{})
	if r.Title != nil {
		out["title"] = *r.Title
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out
}

// courseCertificates renders and uploads certificates; tests replace it.
var courseCertificates = func() *services.CertificateIssuer {
	return services.NewCertificateIssuer(database.DB)
}

func loadCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		return nil, notFound(err, "course")
	}
	return &course, nil
}

// viewableCourse loads the :courseId course and checks the caller may see it.
func viewableCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := services.CheckViewCourse(middleware.CurrentIdentity(c), *course); err != nil {
		return nil, err
	}
	return course, nil
}

func manageableCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := services.CheckManageCourse(middleware.CurrentIdentity(c), *course); err != nil {
		return nil, err
	}
	return course, nil
}

func CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	course, err := services.CreateCourse(database.DB, middleware.CurrentIdentity(c), services.NewCourse{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListCourses(c *fiber.Ctx) error {
	skip, limit := utils.Pagination(c, 100)
	courses, err := services.VisibleCourses(database.DB, middleware.CurrentIdentity(c), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	course, err := viewableCourse(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	course, err := manageableCourse(c)
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateCourseRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if changes := req.changes(); len(changes) > 0 {
		if err := database.DB.Model(course).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(course, course.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func EnrollInCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return respondError(c, err)
	}
	course, err := loadCourse(courseID)
	if err != nil {
		return respondError(c, err)
	}

	id := middleware.CurrentIdentity(c)
	if _, err := services.Enroll(database.DB, id.UserID, *course); err != nil {
		return respondError(c, err)
	}
	utils.Log.WithField("user_id", id.UserID).WithField("course_id", course.ID).Info("user enrolled")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Enrollment successful"})
}

func GetMyCourses(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	courses := []models.Course{}
	err := database.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", id.UserID).
		Order("enrollments.enrolled_at desc").
		Find(&courses).Error
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(courses)
}

func GetCourseProgress(c *fiber.Ctx) error {
	course, err := viewableCourse(c)
	if err != nil {
		return respondError(c, err)
	}
	progress, err := services.CourseProgressFor(database.DB, middleware.CurrentIdentity(c).UserID, course.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(progress)
}

// IssueCertificate returns 201 when a certificate is created and 200 when
// the caller already held one.
func IssueCertificate(c *fiber.Ctx) error {
	course, err := viewableCourse(c)
	if err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.Preload("Profile").First(&user, middleware.CurrentIdentity(c).UserID).Error; err != nil {
		return respondError(c, notFound(err, "user"))
	}

	cert, created, err := courseCertificates().Issue(c.UserContext(), user, *course)
	if err != nil {
		return respondError(c, err)
	}
	if created {
		go notifyCertificate(user.ID, *cert)
		return c.Status(fiber.StatusCreated).JSON(cert)
	}
	return c.JSON(cert)
}

func notifyCertificate(userID uint, cert models.Certificate) {
	link := cert.CertificateURL
	_, err := services.Notify(database.DB, services.NotificationInput{
		UserID:  userID,
		Type:    models.NotificationSystem,
		Title:   "Certificate issued",
		Message: "Your certificate for " + cert.CourseTitle + " is ready.",
		Link:    &link,
		Email:   true,
	})
	if err != nil {
		utils.Log.WithError(err).WithField("user_id", userID).Warn("certificate notification failed")
	}
}

func ListMyCertificates(c *fiber.Ctx) error {
	certs := []models.Certificate{}
	if err := database.DB.Where("user_id = ?", middleware.CurrentIdentity(c).UserID).
		Order("issued_at desc").Find(&certs).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(certs)
}
