package handlers

import (
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// changes returns only the columns present in the request.
func (r UpdateUserRequest) changes(caller services.Identity) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.Role != nil {
		role, err := models.ParseRole(*r.Role)
		if err != nil {
			return nil, services.Invalid("unknown role " + *r.Role)
		}
		if role == models.RoleSystemAdmin && !caller.IsSystemAdmin() {
			return nil, services.Forbidden("only system administrators can grant that role")
		}
		out["role"] = role
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out, nil
}

type ProfileRequest struct {
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Bio        *string `json:"bio"`
}

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	AvatarURL  *string `json:"avatar_url" validate:"omitempty,url"`
	Bio        *string `json:"bio"`
}

func (r UpdateProfileRequest) changes() map[string]interface{} {
	out := make(map[string]interface{})
	set := func(col string, v *string) {
		if v != nil {
			out[col] = *v
		}
	}
	set("first_name", r.FirstName)
	set("last_name", r.LastName)
	set("phone", r.Phone)
	set("position", r.Position)
	set("department", r.Department)
	set("avatar_url", r.AvatarURL)
	set("bio", r.Bio)
	return out
}

func ListUsers(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	skip, limit := utils.Pagination(c, 100)

	q := database.DB.Model(&models.User{})
	if !id.IsSystemAdmin() {
		if id.CompanyID == nil {
			return c.JSON([]models.User{})
		}
		q = q.Where("company_id = ?", *id.CompanyID)
	}

	users := []models.User{}
	if err := q.Order("id").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func loadVisibleUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := paramID(c, "userId")
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}

	id := middleware.CurrentIdentity(c)
	if !id.IsSystemAdmin() && id.UserID != user.ID && !sameCompany(id.CompanyID, user.CompanyID) {
		return nil, services.Forbidden("you cannot access this user")
	}
	return &user, nil
}

func GetUser(c *fiber.Ctx) error {
	user, err := loadVisibleUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func UpdateUser(c *fiber.Ctx) error {
	user, err := loadVisibleUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	changes, err := req.changes(middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	if len(changes) > 0 {
		if err := database.DB.Model(user).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(user, user.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func GetMyProfile(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	var profile models.Profile
	if err := database.DB.Where("user_id = ?", id.UserID).First(&profile).Error; err != nil {
		return respondError(c, notFound(err, "profile"))
	}
	return c.JSON(profile)
}

func CreateMyProfile(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	var existing models.Profile
	err := database.DB.Where("user_id = ?", id.UserID).First(&existing).Error
	if err == nil {
		return respondError(c, services.Invalid("profile already exists"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, err)
	}

	profile := models.Profile{
		UserID:     id.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Position:   req.Position,
		Department: req.Department,
		Bio:        req.Bio,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func UpdateMyProfile(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	var profile models.Profile
	if err := database.DB.Where("user_id = ?", id.UserID).First(&profile).Error; err != nil {
		return respondError(c, notFound(err, "profile"))
	}
	if changes := req.changes(); len(changes) > 0 {
		if err := database.DB.Model(&profile).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(&profile, profile.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func sameCompany(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}
