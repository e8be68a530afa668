package main

import (
	"fmt"
	"strings"

	"billscan/models"

	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]bool{
	models.RoleAdmin:     true,
	models.RoleSalesman:  true,
	models.RoleDelivery:  true,
	models.RoleOrganiser: true,
}

// RegisterUser creates a user under the given tenant with a role.
func RegisterUser(tenantID uint, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		role = models.RoleSalesman
	}
	if !validRoles[role] {
		return fmt.Errorf("unknown role %q", role)
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return fmt.Errorf("user already exists")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{TenantID: tenantID, Username: username, HashedPassword: hashedPassword, Role: role, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return fmt.Errorf("user already exists")
		}
		return err
	}
	return nil
}

func Authenticate(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	var user models.User
	if err := db.Where("username = ? AND is_active = true", username).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// HasPermission checks the role's grants; ADMIN bypasses the table entirely.
func HasPermission(user *models.User, code string) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	var cnt int64
	db.Model(&models.RolePermission{}).
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role = ? AND role_permissions.granted = true AND permissions.code = ?", user.Role, code).
		Count(&cnt)
	return cnt > 0
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
