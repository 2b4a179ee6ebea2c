package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/notifications"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role"`
	CompanyID *uint  `json:"company_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterUser creates an account. System administrators cannot sign
// themselves up; they are seeded or promoted.
func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	role := models.RoleStudent
	if req.Role != "" {
		r, err := models.ParseRole(req.Role)
		if err != nil {
			return respondError(c, services.Invalid("unknown role "+req.Role))
		}
		role = r
	}
	if role == models.RoleSystemAdmin {
		return respondError(c, services.Forbidden("system administrators cannot self-register"))
	}

	if req.CompanyID != nil {
		var company models.Company
		if err := database.DB.First(&company, *req.CompanyID).Error; err != nil {
			return respondError(c, notFound(err, "company"))
		}
	}

	var count int64
	if err := database.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return respondError(c, err)
	}
	if count > 0 {
		return respondError(c, services.Invalid("email already registered"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, errors.Wrap(err, "hash password"))
	}

	newUser := models.User{
		Email:          req.Email,
		HashedPassword: string(hashedPassword),
		Role:           role,
		CompanyID:      req.CompanyID,
		IsActive:       true,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, services.Invalid("email already registered"))
		}
		return respondError(c, err)
	}

	utils.Log.WithFields(logrus.Fields{"user_id": newUser.ID, "role": newUser.Role}).Info("user registered")
	go notifications.SendEmail("", newUser.Email, "Welcome!", "<h1>Welcome!</h1><p>Your training account is ready.</p>")

	return c.Status(fiber.StatusCreated).JSON(newUser)
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "User is inactive"})
	}

	pair, err := services.IssueTokens(user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pair)
}

func RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	claims, err := services.ParseToken(req.RefreshToken, services.TokenTypeRefresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}
	userID, err := services.SubjectID(claims)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil || !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found or inactive"})
	}

	pair, err := services.IssueTokens(user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pair)
}

func GetMe(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	var user models.User
	if err := database.DB.Preload("Profile").First(&user, id.UserID).Error; err != nil {
		return respondError(c, notFound(err, "user"))
	}
	return c.JSON(user)
}
