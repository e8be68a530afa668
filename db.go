package main

import (
	"log"
	"os"
	"strings"

	"billscan/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block
		// others. Tenants and permissions first so FKs land on existing
		// tables.
		steps := []struct {
			name  string
			model interface{}
		}{
			{"tenants", &models.Tenant{}},
			{"permissions", &models.Permission{}},
			{"role_permissions", &models.RolePermission{}},
			{"users", &models.User{}},
			{"vendors", &models.Vendor{}},
			{"bills", &models.Bill{}},
			{"bill_items", &models.BillItem{}},
			{"proxy_bills", &models.ProxyBill{}},
			{"proxy_bill_items", &models.ProxyBillItem{}},
			{"credit_entries", &models.CreditEntry{}},
			{"delivery_orders", &models.DeliveryOrder{}},
			{"ocr_jobs", &models.OCRJob{}},
			{"audit_logs", &models.AuditLog{}},
			{"refresh_tokens", &models.RefreshToken{}},
		}
		for _, s := range steps {
			if err := db.AutoMigrate(s.model); err != nil {
				log.Printf("migration warning (%s): %v", s.name, err)
			}
		}
	}
	seedDB()
}

// Permission catalogue with default role grants. ADMIN is never listed; it
// bypasses the table.
var permissionSeed = []struct {
	code     string
	name     string
	category string
	roles    []string
}{
	{"create_bill", "Create bill", "BILL", []string{models.RoleSalesman}},
	{"view_bills", "View bills", "BILL", []string{models.RoleSalesman, models.RoleDelivery, models.RoleOrganiser}},
	{"authorize_bill", "Authorize bill", "BILL", []string{models.RoleOrganiser}},
	{"cancel_bill", "Cancel bill", "BILL", []string{models.RoleOrganiser}},
	{"scan_bill", "Scan bill image", "BILL", []string{models.RoleSalesman}},
	{"manage_vendors", "Manage vendors", "VENDOR", []string{models.RoleSalesman, models.RoleOrganiser}},
	{"record_credit", "Record credit entry", "CREDIT", []string{models.RoleSalesman, models.RoleOrganiser}},
	{"view_credits", "View credit entries", "CREDIT", []string{models.RoleSalesman, models.RoleOrganiser}},
	{"manage_deliveries", "Manage delivery orders", "DELIVERY", []string{models.RoleDelivery, models.RoleOrganiser}},
}

func seedDB() {
	// Default tenant
	var tenant models.Tenant
	if err := db.Where("code = ?", "skanda").First(&tenant).Error; err != nil {
		tenant = models.Tenant{Name: "Skanda Agencies", Code: "skanda", IsActive: true}
		if err := db.Create(&tenant).Error; err != nil {
			log.Printf("failed to seed tenant: %v", err)
			return
		}
		log.Println("Seeded default tenant:", tenant.Code)
	}

	// Permission catalogue and role grants
	for _, p := range permissionSeed {
		var perm models.Permission
		if err := db.Where("code = ?", p.code).First(&perm).Error; err != nil {
			perm = models.Permission{Code: p.code, Name: p.name, Category: p.category}
			if err := db.Create(&perm).Error; err != nil {
				log.Printf("failed to seed permission %s: %v", p.code, err)
				continue
			}
		}
		for _, role := range p.roles {
			var cnt int64
			db.Model(&models.RolePermission{}).Where("role = ? AND permission_id = ?", role, perm.ID).Count(&cnt)
			if cnt == 0 {
				db.Create(&models.RolePermission{Role: role, PermissionID: perm.ID, Granted: true})
			}
		}
	}

	// Admin user
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin := models.User{TenantID: tenant.ID, Username: "admin", HashedPassword: hashedPassword, Role: models.RoleAdmin, IsActive: true}
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin, password=admin123")
	}

	ensureUploadBase()
}

// ensureUploadBase creates the base directory for scanned bill images.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for scanned bill images
// (configurable via UPLOAD_BASE env).
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
