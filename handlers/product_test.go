package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"retailhub-backend/models"

	"github.com/google/uuid"
)

func TestCreateProduct_Success(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin@example.com", models.RoleAdmin, nil)
	cat := seedCategory(db, "Beverages")
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	req := authRequest("POST", "/api/products", map[string]interface{}{
		"name":     "Green Tea",
		"category": cat.ID.String(),
		"price":    4.99,
		"discount": 10,
	}, adminToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var product models.Product
	db.Where("name = ?", "Green Tea").First(&product)
	if !product.Publish {
		t.Error("products default to published")
	}
	if product.LowStockThreshold != 10 {
		t.Errorf("expected default low stock threshold 10, got %d", product.LowStockThreshold)
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin@example.com", models.RoleAdmin, nil)
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	req := authRequest("POST", "/api/products", map[string]interface{}{
		"name":     "Orphan",
		"category": uuid.New().String(),
		"price":    1.00,
	}, adminToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetProducts_Filters(t *testing.T) {
	db := freshDB()
	drinks := seedCategory(db, "Drinks")
	snacks := seedCategory(db, "Snacks")
	seedProduct(db, "Cola", drinks.ID, 2)
	seedProduct(db, "Water", drinks.ID, 1)
	seedProduct(db, "Chips", snacks.ID, 3)
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/products?category="+drinks.ID.String(), nil))
	resp := parseResponse(w)
	if len(resp["products"].([]interface{})) != 2 {
		t.Errorf("category filter: expected 2, got %d", len(resp["products"].([]interface{})))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/products?minPrice=2.5", nil))
	resp = parseResponse(w)
	if len(resp["products"].([]interface{})) != 1 {
		t.Errorf("price filter: expected 1, got %d", len(resp["products"].([]interface{})))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/products?search=chi", nil))
	resp = parseResponse(w)
	if len(resp["products"].([]interface{})) != 1 {
		t.Errorf("search: expected 1, got %d", len(resp["products"].([]interface{})))
	}
}

func TestUpdateProduct_Patch(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin@example.com", models.RoleAdmin, nil)
	cat := seedCategory(db, "Drinks")
	product := seedProduct(db, "Cola", cat.ID, 2)
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	req := authRequest("PUT", "/api/products/"+product.ID.String(), map[string]interface{}{
		"price":   2.50,
		"publish": false,
	}, adminToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Product
	db.First(&updated, "id = ?", product.ID)
	if updated.Price != 2.50 {
		t.Errorf("expected price 2.50, got %v", updated.Price)
	}
	if updated.Publish {
		t.Error("expected publish false")
	}
	if updated.Name != "Cola" {
		t.Error("untouched fields must survive the patch")
	}
}

func TestDeleteProduct_BlockedByOrders(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin@example.com", models.RoleAdmin, nil)
	franchise := seedFranchise(db, "Shop", "shop@retailhub.com")
	buyer, _ := seedTestUser(db, "buyer@example.com", models.RoleUser, nil)
	cat := seedCategory(db, "Drinks")
	product := seedProduct(db, "Cola", cat.ID, 2)
	seedOrder(db, buyer.ID, franchise.ID, product.ID, models.StatusPending, 2)
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	req := authRequest("DELETE", "/api/products/"+product.ID.String(), nil, adminToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteProduct_RemovesFranchiseStock(t *testing.T) {
	db := freshDB()
	_, adminToken := seedTestUser(db, "admin@example.com", models.RoleAdmin, nil)
	franchise := seedFranchise(db, "Shop", "shop@retailhub.com")
	cat := seedCategory(db, "Drinks")
	product := seedProduct(db, "Cola", cat.ID, 2)
	db.Create(&models.FranchiseStock{FranchiseID: franchise.ID, ProductID: product.ID, Quantity: 5})
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	req := authRequest("DELETE", "/api/products/"+product.ID.String(), nil, adminToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stockCount int64
	db.Model(&models.FranchiseStock{}).Where("product_id = ?", product.ID).Count(&stockCount)
	if stockCount != 0 {
		t.Error("stock rows survived the product delete")
	}
}

func TestUpdateProductStock(t *testing.T) {
	db := freshDB()
	_, _, managerToken := seedManagedFranchise(db, "Shop", "shop@retailhub.com")
	cat := seedCategory(db, "Drinks")
	product := seedProduct(db, "Cola", cat.ID, 2)
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	req := authRequest("PUT", "/api/products/"+product.ID.String()+"/stock",
		map[string]int{"warehouse_stock": 500}, managerToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Product
	db.First(&updated, "id = ?", product.ID)
	if updated.WarehouseStock != 500 {
		t.Errorf("expected stock 500, got %d", updated.WarehouseStock)
	}
}
