package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/gofiber/fiber/v2"
)

type ModuleRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Order       int     `json:"order" validate:"gte=0"`
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateModuleRequest) changes() map[string]interface{} {
	out := make(map[string]interface{})
	if r.Title != nil {
		out["title"] = *r.Title
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Order != nil {
		out["sort_order"] = *r.Order
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out
}

type ContentRequest struct {
	ContentType string  `json:"content_type" validate:"required,oneof=text video document link"`
	Content     *string `json:"content"`
	DocumentID  *uint   `json:"document_id"`
	Order       int     `json:"order" validate:"gte=0"`
}

type UpdateContentRequest struct {
	ContentType *string `json:"content_type" validate:"omitempty,oneof=text video document link"`
	Content     *string `json:"content"`
	DocumentID  *uint   `json:"document_id"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
}

func (r UpdateContentRequest) changes() map[string]interface{} {
	out := make(map[string]interface{})
	if r.ContentType != nil {
		out["content_type"] = *r.ContentType
	}
	if r.Content != nil {
		out["content"] = *r.Content
	}
	if r.DocumentID != nil {
		out["document_id"] = *r.DocumentID
	}
	if r.Order != nil {
		out["sort_order"] = *r.Order
	}
	return out
}

// moduleWithCourse loads a module and its course by module id.
func moduleWithCourse(moduleID uint) (*models.Module, *models.Course, error) {
	var module models.Module
	if err := database.DB.First(&module, moduleID).Error; err != nil {
		return nil, nil, notFound(err, "module")
	}
	course, err := loadCourse(module.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &module, course, nil
}

// checkModuleView applies course visibility plus the module's own status:
// inactive modules are visible to course managers only.
func checkModuleView(id services.Identity, module models.Module, course models.Course) error {
	if err := services.CheckViewCourse(id, course); err != nil {
		return err
	}
	if !module.IsActive && !services.CanManageCourse(id, course) {
		return services.Forbidden("module is not available")
	}
	return nil
}

func viewableModule(c *fiber.Ctx) (*models.Module, *models.Course, error) {
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return nil, nil, err
	}
	module, course, err := moduleWithCourse(moduleID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkModuleView(middleware.CurrentIdentity(c), *module, *course); err != nil {
		return nil, nil, err
	}
	return module, course, nil
}

func manageableModule(c *fiber.Ctx) (*models.Module, *models.Course, error) {
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return nil, nil, err
	}
	module, course, err := moduleWithCourse(moduleID)
	if err != nil {
		return nil, nil, err
	}
	if err := services.CheckManageCourse(middleware.CurrentIdentity(c), *course); err != nil {
		return nil, nil, err
	}
	return module, course, nil
}

// moduleInCourse rejects a module addressed through a course it does not belong to.
func moduleInCourse(c *fiber.Ctx, module *models.Module) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	if module.CourseID != courseID {
		return services.NotFound("module")
	}
	return nil
}

func ListModules(c *fiber.Ctx) error {
	course, err := viewableCourse(c)
	if err != nil {
		return respondError(c, err)
	}

	q := database.DB.Where("course_id = ?", course.ID)
	if !services.CanManageCourse(middleware.CurrentIdentity(c), *course) {
		q = q.Where("is_active = ?", true)
	}
	modules := []models.Module{}
	if err := q.Order("sort_order asc").Order("id asc").Find(&modules).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(modules)
}

func CreateModule(c *fiber.Ctx) error {
	course, err := manageableCourse(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ModuleRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	module := models.Module{
		CourseID:    course.ID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		IsActive:    true,
	}
	if err := database.DB.Create(&module).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(module)
}

func GetModule(c *fiber.Ctx) error {
	module, _, err := viewableModule(c)
	if err == nil {
		err = moduleInCourse(c, module)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(module)
}

func UpdateModule(c *fiber.Ctx) error {
	module, _, err := manageableModule(c)
	if err == nil {
		err = moduleInCourse(c, module)
	}
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateModuleRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if changes := req.changes(); len(changes) > 0 {
		if err := database.DB.Model(module).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(module, module.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(module)
}

func DeleteModule(c *fiber.Ctx) error {
	module, _, err := manageableModule(c)
	if err == nil {
		err = moduleInCourse(c, module)
	}
	if err != nil {
		return respondError(c, err)
	}
	if err := database.DB.Delete(module).Error; err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListContents(c *fiber.Ctx) error {
	module, _, err := viewableModule(c)
	if err != nil {
		return respondError(c, err)
	}
	contents := []models.ModuleContent{}
	if err := database.DB.Where("module_id = ?", module.ID).
		Order("sort_order asc").Order("id asc").
		Find(&contents).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(contents)
}

func validateContent(contentType string, content *string, documentID *uint) error {
	if contentType == models.ContentDocument {
		if documentID == nil {
			return services.Invalid("document contents need a document_id")
		}
		var n int64
		if err := database.DB.Model(&models.Document{}).Where("id = ?", *documentID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return services.NotFound("document")
		}
		return nil
	}
	if content == nil || *content == "" {
		return services.Invalid(contentType + " contents need a content value")
	}
	return nil
}

func CreateContent(c *fiber.Ctx) error {
	module, _, err := manageableModule(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ContentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := validateContent(req.ContentType, req.Content, req.DocumentID); err != nil {
		return respondError(c, err)
	}

	content := models.ModuleContent{
		ModuleID:    module.ID,
		ContentType: req.ContentType,
		Content:     req.Content,
		DocumentID:  req.DocumentID,
		Order:       req.Order,
	}
	if err := database.DB.Create(&content).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

func loadContent(c *fiber.Ctx, module *models.Module) (*models.ModuleContent, error) {
	contentID, err := paramID(c, "contentId")
	if err != nil {
		return nil, err
	}
	var content models.ModuleContent
	if err := database.DB.Where("module_id = ?", module.ID).First(&content, contentID).Error; err != nil {
		return nil, notFound(err, "content")
	}
	return &content, nil
}

func GetContent(c *fiber.Ctx) error {
	module, _, err := viewableModule(c)
	if err != nil {
		return respondError(c, err)
	}
	content, err := loadContent(c, module)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(content)
}

func UpdateContent(c *fiber.Ctx) error {
	module, _, err := manageableModule(c)
	if err != nil {
		return respondError(c, err)
	}
	content, err := loadContent(c, module)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateContentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	merged := *content
	if req.ContentType != nil {
		merged.ContentType = *req.ContentType
	}
	if req.Content != nil {
		merged.Content = req.Content
	}
	if req.DocumentID != nil {
		merged.DocumentID = req.DocumentID
	}
	if err := validateContent(merged.ContentType, merged.Content, merged.DocumentID); err != nil {
		return respondError(c, err)
	}

	if changes := req.changes(); len(changes) > 0 {
		if err := database.DB.Model(content).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(content, content.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(content)
}

func DeleteContent(c *fiber.Ctx) error {
	module, _, err := manageableModule(c)
	if err != nil {
		return respondError(c, err)
	}
	content, err := loadContent(c, module)
	if err != nil {
		return respondError(c, err)
	}
	if err := database.DB.Delete(content).Error; err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
