package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(b)
}

func TestBillLifecycle(t *testing.T) {
	r := setupTestServer(t)

	// admin login (seeded)
	resp := performRequest(r, http.MethodPost, "/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin123"}), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginOut struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &loginOut)
	if loginOut.Token == "" {
		t.Fatalf("no token in login response")
	}
	token := loginOut.Token

	// vendor
	resp = performRequest(r, http.MethodPost, "/vendors",
		jsonBody(t, map[string]any{"name": "Acme Distributors", "type": "SUPPLIER"}), token)
	if resp.Code != 200 {
		t.Fatalf("create vendor status=%d body=%s", resp.Code, resp.Body.String())
	}
	var vendorOut struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &vendorOut)

	// bill
	resp = performRequest(r, http.MethodPost, "/bills", jsonBody(t, map[string]any{
		"vendor_id": vendorOut.ID, "bill_number": "1/25-26/014013", "bill_date": "2025-12-04",
		"items": []map[string]any{{"description": "paint 20L", "quantity": 2, "unit_price": 47500}},
	}), token)
	if resp.Code != 200 {
		t.Fatalf("create bill status=%d body=%s", resp.Code, resp.Body.String())
	}
	var billOut struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &billOut)

	// duplicate bill number rejected
	resp = performRequest(r, http.MethodPost, "/bills", jsonBody(t, map[string]any{
		"vendor_id": vendorOut.ID, "bill_number": "1/25-26/014013", "bill_date": "2025-12-04",
	}), token)
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate bill expected 409 got %d", resp.Code)
	}

	// authorize before confirm must fail
	resp = performRequest(r, http.MethodPost, "/bills/"+itoa(billOut.ID)+"/authorize", nil, token)
	if resp.Code != http.StatusConflict {
		t.Fatalf("authorize draft expected 409 got %d", resp.Code)
	}

	resp = performRequest(r, http.MethodPost, "/bills/"+itoa(billOut.ID)+"/confirm", nil, token)
	if resp.Code != 200 {
		t.Fatalf("confirm status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodPost, "/bills/"+itoa(billOut.ID)+"/authorize", nil, token)
	if resp.Code != 200 {
		t.Fatalf("authorize status=%d body=%s", resp.Code, resp.Body.String())
	}

	// cancel after authorize must fail
	resp = performRequest(r, http.MethodPost, "/bills/"+itoa(billOut.ID)+"/cancel", nil, token)
	if resp.Code != http.StatusConflict {
		t.Fatalf("cancel authorized expected 409 got %d", resp.Code)
	}

	// credit entry rolls payment status forward
	resp = performRequest(r, http.MethodPost, "/credits", jsonBody(t, map[string]any{
		"bill_id": billOut.ID, "vendor_id": vendorOut.ID, "amount": 95000,
		"direction": "OUTGOING", "payment_method": "UPI",
	}), token)
	if resp.Code != 200 {
		t.Fatalf("credit status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/bills/"+itoa(billOut.ID), nil, token)
	if resp.Code != 200 {
		t.Fatalf("get bill status=%d", resp.Code)
	}
	var bill struct {
		PaymentStatus string `json:"PaymentStatus"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &bill)
	if bill.PaymentStatus != "FULLY_PAID" {
		t.Fatalf("expected FULLY_PAID got %s", bill.PaymentStatus)
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	if isUniqueConstraintError(nil) {
		t.Fatalf("nil is not a constraint error")
	}
	if !isUniqueConstraintError(errors.New("duplicate key value violates unique constraint")) {
		t.Fatalf("postgres duplicate key not recognized")
	}
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
