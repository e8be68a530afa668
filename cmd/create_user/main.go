package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"billscan/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <username> <password> <role> [tenant_code]")
		fmt.Println("roles: ADMIN, SALESMAN, DELIVERY, ORGANISER")
		os.Exit(2)
	}
	username := os.Args[1]
	password := os.Args[2]
	role := strings.ToUpper(os.Args[3])
	tenantCode := "skanda"
	if len(os.Args) > 4 {
		tenantCode = os.Args[4]
	}

	switch role {
	case models.RoleAdmin, models.RoleSalesman, models.RoleDelivery, models.RoleOrganiser:
	default:
		log.Fatalf("unknown role %q", role)
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var tenant models.Tenant
	if err := db.Where("code = ?", tenantCode).First(&tenant).Error; err != nil {
		log.Fatalf("tenant %q not found (run the server or `billscan migrate` first): %v", tenantCode, err)
	}

	// check existing
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{TenantID: tenant.ID, Username: username, HashedPassword: hpw, Role: role, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d role=%s tenant=%s\n", username, user.ID, role, tenant.Code)
}
