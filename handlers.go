package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"billscan/models"
	"billscan/pkg/ocr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var engine ocr.Engine

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)

	authGroup.POST("/vendors", requirePermission("manage_vendors"), createVendorHandler)
	authGroup.GET("/vendors", listVendorsHandler)
	authGroup.GET("/vendors/:id", getVendorHandler)
	authGroup.PUT("/vendors/:id", requirePermission("manage_vendors"), updateVendorHandler)

	authGroup.POST("/bills", requirePermission("create_bill"), createBillHandler)
	authGroup.GET("/bills", requirePermission("view_bills"), listBillsHandler)
	authGroup.GET("/bills/:id", requirePermission("view_bills"), getBillHandler)
	authGroup.POST("/bills/scan", requirePermission("scan_bill"), scanBillHandler)
	authGroup.POST("/bills/:id/confirm", requirePermission("create_bill"), confirmBillHandler)
	authGroup.POST("/bills/:id/authorize", requirePermission("authorize_bill"), authorizeBillHandler)
	authGroup.POST("/bills/:id/unauthorize", requirePermission("authorize_bill"), unauthorizeBillHandler)
	authGroup.POST("/bills/:id/cancel", requirePermission("cancel_bill"), cancelBillHandler)
	authGroup.POST("/bills/:id/mark_paid", requirePermission("create_bill"), markBillPaidHandler)
	authGroup.POST("/bills/:id/proxy", requirePermission("create_bill"), createProxyBillHandler)
	authGroup.GET("/proxy_bills", requirePermission("view_bills"), listProxyBillsHandler)
	authGroup.GET("/proxy_bills/:id", requirePermission("view_bills"), getProxyBillHandler)

	authGroup.POST("/credits", requirePermission("record_credit"), createCreditHandler)
	authGroup.GET("/credits", requirePermission("view_credits"), listCreditsHandler)

	authGroup.POST("/deliveries", requirePermission("manage_deliveries"), createDeliveryHandler)
	authGroup.GET("/deliveries", requirePermission("view_bills"), listDeliveriesHandler)
	authGroup.POST("/deliveries/:id/status", requirePermission("manage_deliveries"), updateDeliveryStatusHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

// requirePermission gates a route on a permission code. ADMIN always passes.
func requirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		if !HasPermission(user, code) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied: " + code})
			c.Abort()
			return
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": user.Username, "role": user.Role, "tenant_id": user.TenantID})
}

// getUserFromContext fetches the currently authenticated user using the
// username set by jwtAuthMiddleware.
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ? AND is_active = true", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func recordAudit(tenantID, userID uint, action, entityType string, entityID uint) {
	db.Create(&models.AuditLog{TenantID: tenantID, UserID: userID, Action: action, EntityType: entityType, EntityID: entityID})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		Role       string `json:"role"`
		TenantCode string `json:"tenant_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code := req.TenantCode
	if code == "" {
		code = "skanda"
	}
	var tenant models.Tenant
	if err := db.Where("code = ? AND is_active = true", code).First(&tenant).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tenant"})
		return
	}
	if err := RegisterUser(tenant.ID, req.Username, req.Password, req.Role); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := issueAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

func issueAccessToken(user models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username":  user.Username,
		"role":      user.Role,
		"tenant_id": user.TenantID,
		"exp":       time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its
// hash with expiry and returns the raw token string.
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates
// the refresh token.
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := issueAccessToken(user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout).
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

// --- vendors ---

var vendorTypes = map[string]bool{"SUPPLIER": true, "CUSTOMER": true, "BOTH": true}

func createVendorHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var req struct {
		Name         string `json:"name" binding:"required"`
		Type         string `json:"type" binding:"required"`
		ContactPhone string `json:"contact_phone"`
		Email        string `json:"email"`
		Address      string `json:"address"`
		GSTNumber    string `json:"gst_number"`
		CreditLimit  int64  `json:"credit_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := strings.ToUpper(req.Type)
	if !vendorTypes[t] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be SUPPLIER, CUSTOMER or BOTH"})
		return
	}
	v := models.Vendor{
		TenantID: user.TenantID, Name: req.Name, Type: t,
		ContactPhone: req.ContactPhone, Email: req.Email, Address: req.Address,
		GSTNumber: req.GSTNumber, CreditLimit: req.CreditLimit,
	}
	if err := db.Create(&v).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "create", "vendor", v.ID)
	c.JSON(http.StatusOK, gin.H{"id": v.ID})
}

func listVendorsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var vendors []models.Vendor
	q := db.Where("tenant_id = ?", user.TenantID)
	if t := strings.ToUpper(c.Query("type")); t != "" {
		q = q.Where("type = ?", t)
	}
	if err := q.Order("name").Limit(500).Find(&vendors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func getVendorHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var v models.Vendor
	if err := db.Where("tenant_id = ?", user.TenantID).First(&v, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func updateVendorHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var v models.Vendor
	if err := db.Where("tenant_id = ?", user.TenantID).First(&v, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Name         *string `json:"name"`
		ContactPhone *string `json:"contact_phone"`
		Email        *string `json:"email"`
		Address      *string `json:"address"`
		GSTNumber    *string `json:"gst_number"`
		CreditLimit  *int64  `json:"credit_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.ContactPhone != nil {
		v.ContactPhone = *req.ContactPhone
	}
	if req.Email != nil {
		v.Email = *req.Email
	}
	if req.Address != nil {
		v.Address = *req.Address
	}
	if req.GSTNumber != nil {
		v.GSTNumber = *req.GSTNumber
	}
	if req.CreditLimit != nil {
		v.CreditLimit = *req.CreditLimit
	}
	if err := db.Save(&v).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "update", "vendor", v.ID)
	c.JSON(http.StatusOK, v)
}

// --- bills ---

type billItemReq struct {
	Description string `json:"description" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required"`
	UnitPrice   int64  `json:"unit_price" binding:"required"`
}

func createBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var req struct {
		VendorID   uint          `json:"vendor_id" binding:"required"`
		BillNumber string        `json:"bill_number" binding:"required"`
		BillDate   string        `json:"bill_date" binding:"required"` // YYYY-MM-DD
		BillType   string        `json:"bill_type"`
		Subtotal   int64         `json:"subtotal"`
		Tax        int64         `json:"tax"`
		Total      int64         `json:"total"`
		Items      []billItemReq `json:"items"`

		// Reviewer-confirmed OCR suggestions.
		DeliveryDate      *string `json:"delivery_date"`
		BilledToName      *string `json:"billed_to_name"`
		ShippedToName     *string `json:"shipped_to_name"`
		DeliveryRecipient *string `json:"delivery_recipient"`
		Post              *string `json:"post"`
		OCRJobID          *uint   `json:"ocr_job_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var vendor models.Vendor
	if err := db.Where("tenant_id = ?", user.TenantID).First(&vendor, req.VendorID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown vendor"})
		return
	}
	billDate, err := time.Parse("2006-01-02", req.BillDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bill_date must be YYYY-MM-DD"})
		return
	}
	billType := strings.ToUpper(req.BillType)
	if billType == "" {
		billType = models.BillTypeNormal
	}
	if billType != models.BillTypeNormal && billType != models.BillTypeHandbill {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bill_type must be NORMAL or HANDBILL"})
		return
	}
	// duplicate check per vendor
	var existing models.Bill
	if err := db.Where("tenant_id = ? AND vendor_id = ? AND bill_number = ?", user.TenantID, req.VendorID, req.BillNumber).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "bill number already recorded for vendor"})
		return
	}

	bill := models.Bill{
		TenantID: user.TenantID, VendorID: vendor.ID,
		BillNumber: req.BillNumber, BillDate: billDate, BillType: billType,
		Status: models.BillStatusDraft, PaymentStatus: models.PaymentUnpaid,
		AmountSubtotal: req.Subtotal, AmountTax: req.Tax, AmountTotal: req.Total,
		BilledToName: req.BilledToName, ShippedToName: req.ShippedToName,
		DeliveryRecipient: req.DeliveryRecipient, Post: req.Post,
	}
	if req.DeliveryDate != nil {
		if dd, err := time.Parse("2006-01-02", *req.DeliveryDate); err == nil {
			bill.DeliveryDate = &dd
		}
	}
	var itemsTotal int64
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item quantity or price"})
			return
		}
		amount := it.Quantity * it.UnitPrice
		itemsTotal += amount
		bill.Items = append(bill.Items, models.BillItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Amount: amount})
	}
	if bill.AmountTotal == 0 {
		bill.AmountTotal = itemsTotal
	}
	if err := db.Create(&bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if req.OCRJobID != nil {
		db.Model(&models.OCRJob{}).
			Where("id = ? AND tenant_id = ?", *req.OCRJobID, user.TenantID).
			Update("bill_id", bill.ID)
	}
	recordAudit(user.TenantID, user.ID, "create", "bill", bill.ID)
	c.JSON(http.StatusOK, gin.H{"id": bill.ID, "status": bill.Status})
}

func listBillsHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var bills []models.Bill
	q := db.Where("tenant_id = ?", user.TenantID)
	if s := strings.ToUpper(c.Query("status")); s != "" {
		q = q.Where("status = ?", s)
	}
	if v := c.Query("vendor_id"); v != "" {
		q = q.Where("vendor_id = ?", v)
	}
	if err := q.Order("id desc").Limit(200).Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

func getBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var bill models.Bill
	if err := db.Preload("Items").Preload("Vendor").
		Where("tenant_id = ?", user.TenantID).First(&bill, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

func loadTenantBill(c *gin.Context, user *models.User) (*models.Bill, bool) {
	var bill models.Bill
	if err := db.Where("tenant_id = ?", user.TenantID).First(&bill, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	return &bill, true
}

func confirmBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	bill, ok := loadTenantBill(c, user)
	if !ok {
		return
	}
	if bill.Status != models.BillStatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "only draft bills can be confirmed"})
		return
	}
	bill.Status = models.BillStatusConfirmed
	if err := db.Save(bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "confirm", "bill", bill.ID)
	c.JSON(http.StatusOK, gin.H{"id": bill.ID, "status": bill.Status})
}

func authorizeBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	bill, ok := loadTenantBill(c, user)
	if !ok {
		return
	}
	if bill.Status != models.BillStatusConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "only confirmed bills can be authorized"})
		return
	}
	if bill.IsAuthorized {
		c.JSON(http.StatusConflict, gin.H{"error": "already authorized"})
		return
	}
	now := time.Now()
	bill.IsAuthorized = true
	bill.AuthorizedBy = &user.ID
	bill.AuthorizedAt = &now
	if err := db.Save(bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "authorize", "bill", bill.ID)
	c.JSON(http.StatusOK, gin.H{"id": bill.ID, "authorized": true})
}

func unauthorizeBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	bill, ok := loadTenantBill(c, user)
	if !ok {
		return
	}
	if !bill.IsAuthorized {
		c.JSON(http.StatusConflict, gin.H{"error": "not authorized"})
		return
	}
	if bill.PaymentStatus != models.PaymentUnpaid {
		c.JSON(http.StatusConflict, gin.H{"error": "payments recorded; cannot withdraw authorization"})
		return
	}
	bill.IsAuthorized = false
	bill.AuthorizedBy = nil
	bill.AuthorizedAt = nil
	if err := db.Save(bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "unauthorize", "bill", bill.ID)
	c.JSON(http.StatusOK, gin.H{"id": bill.ID, "authorized": false})
}

func cancelBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	bill, ok := loadTenantBill(c, user)
	if !ok {
		return
	}
	if bill.IsAuthorized {
		c.JSON(http.StatusConflict, gin.H{"error": "authorized bills cannot be cancelled"})
		return
	}
	if bill.Status == models.BillStatusCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "already cancelled"})
		return
	}
	bill.Status = models.BillStatusCancelled
	if err := db.Save(bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "cancel", "bill", bill.ID)
	c.JSON(http.StatusOK, gin.H{"id": bill.ID, "status": bill.Status})
}

func markBillPaidHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	bill, ok := loadTenantBill(c, user)
	if !ok {
		return
	}
	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ps := strings.ToUpper(req.PaymentStatus)
	if ps != models.PaymentPartiallyPaid && ps != models.PaymentFullyPaid && ps != models.PaymentUnpaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
		return
	}
	if bill.Status != models.BillStatusConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "only confirmed bills take payments"})
		return
	}
	bill.PaymentStatus = ps
	if err := db.Save(bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "mark_paid", "bill", bill.ID)
	c.JSON(http.StatusOK, gin.H{"id": bill.ID, "payment_status": bill.PaymentStatus})
}

// --- bill scanning ---

// scanBillHandler OCRs an uploaded bill image and returns field suggestions
// for human review. Extraction never fails: an unreadable image simply comes
// back with every suggestion null.
func scanBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	dir := filepath.Join(uploadBaseDir(), "scans")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, file.Filename)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	detailed := c.PostForm("detailed") != "false"
	res, err := engine.Run(fullPath, detailed)
	if err != nil && !errors.Is(err, ocr.ErrNoText) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image could not be processed"})
		return
	}

	job := models.OCRJob{TenantID: user.TenantID, ImagePath: fullPath, RawText: res.Text, Detailed: res.Detailed()}
	if err := db.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "scan", "ocr_job", job.ID)
	c.JSON(http.StatusOK, gin.H{
		"ocr_job_id":  job.ID,
		"detailed":    res.Detailed(),
		"suggestions": res.Suggestions(),
	})
}

// --- proxy bills ---

func createProxyBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	parent, ok := loadTenantBill(c, user)
	if !ok {
		return
	}
	if parent.Status != models.BillStatusConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "only confirmed bills can be split"})
		return
	}
	var req struct {
		VendorID uint          `json:"vendor_id" binding:"required"`
		Items    []billItemReq `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var vendor models.Vendor
	if err := db.Where("tenant_id = ?", user.TenantID).First(&vendor, req.VendorID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown vendor"})
		return
	}
	var seq int64
	db.Model(&models.ProxyBill{}).Where("parent_bill_id = ?", parent.ID).Count(&seq)
	pb := models.ProxyBill{
		TenantID: user.TenantID, ParentBillID: parent.ID, VendorID: vendor.ID,
		ProxyNumber: parent.BillNumber + "/P" + strconv.FormatInt(seq+1, 10),
		Status:      models.BillStatusDraft,
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item quantity or price"})
			return
		}
		amount := it.Quantity * it.UnitPrice
		pb.AmountTotal += amount
		pb.Items = append(pb.Items, models.ProxyBillItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Amount: amount})
	}
	if err := db.Create(&pb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "create", "proxy_bill", pb.ID)
	c.JSON(http.StatusOK, gin.H{"id": pb.ID, "proxy_number": pb.ProxyNumber})
}

func listProxyBillsHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var pbs []models.ProxyBill
	q := db.Where("tenant_id = ?", user.TenantID)
	if v := c.Query("parent_bill_id"); v != "" {
		q = q.Where("parent_bill_id = ?", v)
	}
	if err := q.Order("id desc").Limit(200).Find(&pbs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, pbs)
}

func getProxyBillHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var pb models.ProxyBill
	if err := db.Preload("Items").Where("tenant_id = ?", user.TenantID).First(&pb, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, pb)
}

// --- credit entries ---

var paymentMethods = map[string]bool{"CASH": true, "UPI": true, "BANK": true, "CHEQUE": true, "CARD": true}

func createCreditHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var req struct {
		BillID          *uint  `json:"bill_id"`
		ProxyBillID     *uint  `json:"proxy_bill_id"`
		VendorID        uint   `json:"vendor_id" binding:"required"`
		Amount          int64  `json:"amount" binding:"required"`
		Direction       string `json:"direction" binding:"required"`
		PaymentMethod   string `json:"payment_method" binding:"required"`
		PaymentDate     string `json:"payment_date"` // YYYY-MM-DD, default today
		ReferenceNumber string `json:"reference_number"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	dir := strings.ToUpper(req.Direction)
	if dir != models.DirectionIncoming && dir != models.DirectionOutgoing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be INCOMING or OUTGOING"})
		return
	}
	method := strings.ToUpper(req.PaymentMethod)
	if !paymentMethods[method] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
		return
	}
	payDate := time.Now()
	if req.PaymentDate != "" {
		t, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must be YYYY-MM-DD"})
			return
		}
		payDate = t
	}
	var bill models.Bill
	if req.BillID != nil {
		if err := db.Where("tenant_id = ?", user.TenantID).First(&bill, *req.BillID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown bill"})
			return
		}
		if bill.Status != models.BillStatusConfirmed {
			c.JSON(http.StatusConflict, gin.H{"error": "only confirmed bills take payments"})
			return
		}
	}
	entry := models.CreditEntry{
		TenantID: user.TenantID, BillID: req.BillID, ProxyBillID: req.ProxyBillID,
		VendorID: req.VendorID, Amount: req.Amount, Direction: dir,
		PaymentMethod: method, PaymentDate: payDate,
		ReferenceNumber: req.ReferenceNumber, Notes: req.Notes,
	}
	if err := db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	// Roll the bill's payment status forward from the sum of its entries.
	if req.BillID != nil {
		var paid int64
		db.Model(&models.CreditEntry{}).Where("bill_id = ?", *req.BillID).
			Select("COALESCE(SUM(amount), 0)").Scan(&paid)
		ps := models.PaymentPartiallyPaid
		if bill.AmountTotal > 0 && paid >= bill.AmountTotal {
			ps = models.PaymentFullyPaid
		}
		db.Model(&models.Bill{}).Where("id = ?", *req.BillID).Update("payment_status", ps)
	}
	recordAudit(user.TenantID, user.ID, "create", "credit_entry", entry.ID)
	c.JSON(http.StatusOK, gin.H{"id": entry.ID})
}

func listCreditsHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var entries []models.CreditEntry
	q := db.Where("tenant_id = ?", user.TenantID)
	if v := c.Query("bill_id"); v != "" {
		q = q.Where("bill_id = ?", v)
	}
	if v := c.Query("vendor_id"); v != "" {
		q = q.Where("vendor_id = ?", v)
	}
	if err := q.Order("id desc").Limit(200).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- delivery orders ---

var deliveryTransitions = map[string][]string{
	"PENDING":    {"IN_TRANSIT", "CANCELLED"},
	"IN_TRANSIT": {"DELIVERED", "CANCELLED"},
}

func createDeliveryHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var req struct {
		BillID          *uint  `json:"bill_id"`
		ProxyBillID     *uint  `json:"proxy_bill_id"`
		DeliveryUserID  *uint  `json:"delivery_user_id"`
		DeliveryAddress string `json:"delivery_address" binding:"required"`
		DeliveryDate    string `json:"delivery_date" binding:"required"` // YYYY-MM-DD
		Remarks         string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dd, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be YYYY-MM-DD"})
		return
	}
	deliveryUser := user.ID
	if req.DeliveryUserID != nil {
		var du models.User
		if err := db.Where("tenant_id = ? AND role = ?", user.TenantID, models.RoleDelivery).First(&du, *req.DeliveryUserID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown delivery user"})
			return
		}
		deliveryUser = du.ID
	}
	do := models.DeliveryOrder{
		TenantID: user.TenantID, BillID: req.BillID, ProxyBillID: req.ProxyBillID,
		DeliveryUserID: deliveryUser, DeliveryAddress: req.DeliveryAddress,
		DeliveryDate: dd, Status: "PENDING", Remarks: req.Remarks,
	}
	if err := db.Create(&do).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "create", "delivery_order", do.ID)
	c.JSON(http.StatusOK, gin.H{"id": do.ID})
}

func listDeliveriesHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var orders []models.DeliveryOrder
	q := db.Where("tenant_id = ?", user.TenantID)
	// Delivery staff only see their own assignments.
	if user.Role == models.RoleDelivery {
		q = q.Where("delivery_user_id = ?", user.ID)
	}
	if s := strings.ToUpper(c.Query("status")); s != "" {
		q = q.Where("status = ?", s)
	}
	if err := q.Order("delivery_date").Limit(200).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func updateDeliveryStatusHandler(c *gin.Context) {
	user, _ := getUserFromContext(c)
	var do models.DeliveryOrder
	if err := db.Where("tenant_id = ?", user.TenantID).First(&do, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Status  string `json:"status" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next := strings.ToUpper(req.Status)
	allowed := false
	for _, s := range deliveryTransitions[do.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition " + do.Status + " -> " + next})
		return
	}
	do.Status = next
	if req.Remarks != "" {
		do.Remarks = req.Remarks
	}
	if err := db.Save(&do).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	recordAudit(user.TenantID, user.ID, "status", "delivery_order", do.ID)
	c.JSON(http.StatusOK, gin.H{"id": do.ID, "status": do.Status})
}
