package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
)

type RAGQueryRequest struct {
	Query     string `json:"query" validate:"required,max=4000"`
	CompanyID *uint  `json:"company_id"`
}

func QueryRAG(c *fiber.Ctx) error {
	var req RAGQueryRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	res, err := services.AnswerQuery(database.DB, middleware.CurrentIdentity(c), req.Query, req.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func GetRAGHistory(c *fiber.Ctx) error {
	skip, limit := utils.Pagination(c, 50)
	history, err := services.RAGHistory(database.DB, middleware.CurrentIdentity(c).UserID, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}
