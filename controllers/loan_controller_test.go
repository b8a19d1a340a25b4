package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LoanRangers/SelfServiceLoaningBackend/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *db.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := db.NewRepo(gdb)

	fakeAuth := func(c *gin.Context) {
		c.Set("ssoId", "alice")
		c.Next()
	}

	r := gin.New()
	itemCtl := NewItemController(repo)
	loanCtl := NewLoanController(repo)
	items := r.Group("/items", fakeAuth)
	{
		items.POST("", itemCtl.CreateItem)
		items.GET("/available", itemCtl.ListAvailable)
		items.POST("/loan", loanCtl.Loan)
		items.POST("/return", loanCtl.Return)
		items.GET("/loans/current", loanCtl.Current)
		items.GET("/loans/history", loanCtl.History)
	}
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createItemHTTP(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/items", map[string]any{
		"name":     name,
		"category": "Tools",
		"location": "Storage",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create item status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	return resp.ID
}

func TestLoanEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	itemID := createItemHTTP(t, r, "Drill-01")

	w := doJSON(t, r, http.MethodPost, "/items/loan", map[string]any{"itemIds": []string{itemID}})
	if w.Code != http.StatusCreated {
		t.Fatalf("loan status = %d, body %s", w.Code, w.Body.String())
	}

	// Second loan conflicts with a stable error code.
	w = doJSON(t, r, http.MethodPost, "/items/loan", map[string]any{"itemIds": []string{itemID}})
	if w.Code != http.StatusConflict {
		t.Fatalf("second loan status = %d, want 409", w.Code)
	}
	var errResp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "ALREADY_LOANED" {
		t.Errorf("error code = %q, want ALREADY_LOANED", errResp.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/items/loans/current", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/items/return", map[string]any{"itemId": itemID, "location": "Shelf-A"})
	if w.Code != http.StatusOK {
		t.Fatalf("return status = %d, body %s", w.Code, w.Body.String())
	}

	// Nothing left to return.
	w = doJSON(t, r, http.MethodPost, "/items/return", map[string]any{"itemId": itemID, "location": "Shelf-A"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("double return status = %d, want 404", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "NO_ACTIVE_LOAN" {
		t.Errorf("error code = %q, want NO_ACTIVE_LOAN", errResp.Code)
	}
}

func TestLoanEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/items/loan", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing itemIds status = %d, want 400", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/items/return", map[string]any{"itemId": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing location status = %d, want 400", w.Code)
	}
}

func TestHistoryEndpointFarPage(t *testing.T) {
	r, _ := newTestRouter(t)
	itemID := createItemHTTP(t, r, "Drill-01")
	doJSON(t, r, http.MethodPost, "/items/loan", map[string]any{"itemIds": []string{itemID}})
	doJSON(t, r, http.MethodPost, "/items/return", map[string]any{"itemId": itemID, "location": "Shelf-A"})

	w := doJSON(t, r, http.MethodGet, "/items/loans/history?page=100&size=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("far page status = %d, want 200", w.Code)
	}
	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("far page returned %d items, want 0", len(resp.Items))
	}
}
