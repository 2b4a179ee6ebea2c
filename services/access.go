package services

import "github.com/anjiri1684/corporate_training/models"

// Identity is the authenticated caller as asserted by the access token.
type Identity struct {
	UserID    uint
	Role      models.Role
	CompanyID *uint
}

func (id Identity) IsSystemAdmin() bool {
	return id.Role == models.RoleSystemAdmin
}

func (id Identity) InCompany(companyID uint) bool {
	return id.CompanyID != nil && *id.CompanyID == companyID
}

func (id Identity) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

func CanViewCourse(id Identity, course models.Course) bool {
	switch id.Role {
	case models.RoleSystemAdmin:
		return true
	case models.RoleStudent:
		return course.IsActive
	case models.RoleInstructor:
		return course.InstructorID == id.UserID || id.InCompany(course.CompanyID)
	default:
		return id.InCompany(course.CompanyID)
	}
}

func CanManageCourse(id Identity, course models.Course) bool {
	if id.IsSystemAdmin() || course.InstructorID == id.UserID {
		return true
	}
	return id.Role == models.RoleCompanyAdmin && id.InCompany(course.CompanyID)
}

func CanAccessCompany(id Identity, companyID uint) bool {
	return id.IsSystemAdmin() || id.InCompany(companyID)
}

// CheckViewCourse returns ErrForbidden when CanViewCourse fails.
func CheckViewCourse(id Identity, course models.Course) error {
	if !CanViewCourse(id, course) {
		if id.Role == models.RoleStudent {
			return Forbidden("course is not available")
		}
		return Forbidden("you do not have access to this course")
	}
	return nil
}

func CheckManageCourse(id Identity, course models.Course) error {
	if !CanManageCourse(id, course) {
		return Forbidden("you cannot modify this course")
	}
	return nil
}
