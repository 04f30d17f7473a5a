package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/acme/inventory-service/app/categories"
	"github.com/acme/inventory-service/app/products"
	"github.com/acme/inventory-service/models"
)

// newTestServer wires the full router against a fresh in-memory database,
// so these tests exercise the same path a real request takes.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))

	logger := zap.NewNop()
	router := NewRouter(
		categories.NewCategoryHandler(models.NewCategoryRepository(db), logger),
		products.NewProductHandler(models.NewProductsRepository(db), logger),
		db,
		logger,
	)
	return router.Setup()
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func createCategory(t *testing.T, srv http.Handler, name string) uint {
	t.Helper()
	rec, body := doJSON(t, srv, "POST", "/api/v1/categories",
		fmt.Sprintf(`{"name":%q}`, name))
	require.Equal(t, http.StatusCreated, rec.Code)
	return uint(body["id"].(float64))
}

func createProduct(t *testing.T, srv http.Handler, name string, categoryID uint) uint {
	t.Helper()
	rec, body := doJSON(t, srv, "POST", "/api/v1/products",
		fmt.Sprintf(`{"name":%q,"category_id":%d}`, name, categoryID))
	require.Equal(t, http.StatusCreated, rec.Code)
	return uint(body["id"].(float64))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec, body := doJSON(t, srv, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCategoryLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec, body := doJSON(t, srv, "POST", "/api/v1/categories",
		`{"name":"Electronics","description":"Electronic devices"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Electronics", body["name"])

	rec, body = doJSON(t, srv, "POST", "/api/v1/categories", `{"name":"Electronics"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category with this name already exists.", body["error"])

	rec, body = doJSON(t, srv, "GET", "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Electronic devices", body["description"])

	rec, body = doJSON(t, srv, "PUT", "/api/v1/categories/1", `{"name":"Gadgets"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gadgets", body["name"])
	assert.Equal(t, "Electronic devices", body["description"], "omitted field keeps its value")

	rec, _ = doJSON(t, srv, "DELETE", "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, srv, "GET", "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductMissingCategory(t *testing.T) {
	srv := newTestServer(t)

	rec, body := doJSON(t, srv, "POST", "/api/v1/products",
		`{"name":"Test Product","category_id":999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category with id 999 does not exist.", body["error"])
}

func TestProductPagination(t *testing.T) {
	srv := newTestServer(t)
	categoryID := createCategory(t, srv, "Electronics")
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		createProduct(t, srv, name, categoryID)
	}

	rec, body := doJSON(t, srv, "GET", "/api/v1/products?page=2&page_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(2), body["page_size"])
	assert.Equal(t, float64(3), body["total_pages"])
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Charlie", items[0].(map[string]any)["name"])
}

func TestCascadeDelete(t *testing.T) {
	srv := newTestServer(t)
	categoryID := createCategory(t, srv, "Electronics")
	productID := createProduct(t, srv, "iPhone 15", categoryID)

	rec, _ := doJSON(t, srv, "DELETE", fmt.Sprintf("/api/v1/categories/%d", categoryID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, srv, "GET", fmt.Sprintf("/api/v1/products/%d", productID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductCategoryChange(t *testing.T) {
	srv := newTestServer(t)
	first := createCategory(t, srv, "Electronics")
	second := createCategory(t, srv, "Refurbished")
	productID := createProduct(t, srv, "iPhone 15", first)

	rec, body := doJSON(t, srv, "PUT", fmt.Sprintf("/api/v1/products/%d", productID),
		fmt.Sprintf(`{"category_id":%d}`, second))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, float64(second), body["category_id"])
	category := body["category"].(map[string]any)
	assert.Equal(t, float64(second), category["id"])
	assert.Equal(t, "Refurbished", category["name"])
}
