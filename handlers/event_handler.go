package handlers

import (
	"time"

	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/gofiber/fiber/v2"
)

type EventRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description *string   `json:"description"`
	EventType   string    `json:"event_type" validate:"required,oneof=training meeting exam deadline"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Location    *string   `json:"location" validate:"omitempty,max=255"`
	IsAllDay    bool      `json:"is_all_day"`
}

func CreateEvent(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	if id.CompanyID == nil {
		return respondError(c, services.Invalid("you must belong to a company to create events"))
	}

	var req EventRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.EndTime.Before(req.StartTime) {
		return respondError(c, services.Invalid("end_time must not be before start_time"))
	}

	event := models.Event{
		CompanyID:   *id.CompanyID,
		UserID:      id.UserID,
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Location:    req.Location,
		IsAllDay:    req.IsAllDay,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, services.Invalid("invalid " + key)
}

// ListEvents returns the caller's company calendar ordered by start time.
func ListEvents(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	events := []models.Event{}
	if id.CompanyID == nil {
		return c.JSON(events)
	}

	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return respondError(c, err)
	}

	q := database.DB.Where("company_id = ?", *id.CompanyID)
	if start != nil {
		q = q.Where("start_time >= ?", *start)
	}
	if end != nil {
		q = q.Where("end_time <= ?", *end)
	}
	if err := q.Order("start_time asc").Order("id asc").Find(&events).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}
