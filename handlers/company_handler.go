package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
)

type CompanyRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateCompanyRequest) changes() map[string]interface{} {
	out := make(map[string]interface{})
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.LogoURL != nil {
		out["logo_url"] = *r.LogoURL
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out
}

func CreateCompany(c *fiber.Ctx) error {
	var req CompanyRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	company := models.Company{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		IsActive:    true,
	}
	if err := database.DB.Create(&company).Error; err != nil {
		return respondError(c, err)
	}
	utils.Log.WithField("company_id", company.ID).Info("company created")
	return c.Status(fiber.StatusCreated).JSON(company)
}

func ListCompanies(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	skip, limit := utils.Pagination(c, 100)

	companies := []models.Company{}
	q := database.DB.Model(&models.Company{})
	if !id.IsSystemAdmin() {
		if id.CompanyID == nil {
			return c.JSON(companies)
		}
		q = q.Where("id = ?", *id.CompanyID)
	}
	if err := q.Order("id").Offset(skip).Limit(limit).Find(&companies).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(companies)
}

func loadCompany(c *fiber.Ctx) (*models.Company, error) {
	companyID, err := paramID(c, "companyId")
	if err != nil {
		return nil, err
	}
	var company models.Company
	if err := database.DB.First(&company, companyID).Error; err != nil {
		return nil, notFound(err, "company")
	}
	if !services.CanAccessCompany(middleware.CurrentIdentity(c), company.ID) {
		return nil, services.Forbidden("you cannot access this company")
	}
	return &company, nil
}

func GetCompany(c *fiber.Ctx) error {
	company, err := loadCompany(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}

// UpdateCompany is open to system admins and the company's own admins.
func UpdateCompany(c *fiber.Ctx) error {
	company, err := loadCompany(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateCompanyRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.IsActive != nil && !middleware.CurrentIdentity(c).IsSystemAdmin() {
		return respondError(c, services.Forbidden("only system administrators can change company status"))
	}
	if changes := req.changes(); len(changes) > 0 {
		if err := database.DB.Model(company).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(company, company.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}
