package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	authors := middleware.RolesRequired(models.RoleInstructor, models.RoleCompanyAdmin, models.RoleSystemAdmin)

	courses := api.Group("/courses", middleware.Protected())
	courses.Post("", authors, handlers.CreateCourse)
	courses.Get("", handlers.ListCourses)
	courses.Get("/my-courses", handlers.GetMyCourses)
	courses.Get("/my-certificates", handlers.ListMyCertificates)

	contents := courses.Group("/modules/:moduleId/contents")
	contents.Get("", handlers.ListContents)
	contents.Post("", authors, handlers.CreateContent)
	contents.Get("/:contentId", handlers.GetContent)
	contents.Put("/:contentId", authors, handlers.UpdateContent)
	contents.Delete("/:contentId", authors, handlers.DeleteContent)

	courses.Get("/:courseId", handlers.GetCourse)
	courses.Put("/:courseId", authors, handlers.UpdateCourse)
	courses.Post("/:courseId/enroll", handlers.EnrollInCourse)
	courses.Get("/:courseId/progress", handlers.GetCourseProgress)
	courses.Post("/:courseId/certificate", handlers.IssueCertificate)

	modules := courses.Group("/:courseId/modules")
	modules.Get("", handlers.ListModules)
	modules.Post("", authors, handlers.CreateModule)
	modules.Get("/:moduleId", handlers.GetModule)
	modules.Put("/:moduleId", authors, handlers.UpdateModule)
	modules.Delete("/:moduleId", authors, handlers.DeleteModule)
}
