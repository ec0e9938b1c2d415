package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/santhoshgedare/kavyas-inventory/internal/app"
	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

func TestHandleProducts(t *testing.T) {
	t.Parallel()

	created := domain.Product{
		ID:           "p1",
		SKU:          "SKU-1",
		Name:         "Widget",
		Stock:        10,
		Reserved:     0,
		ReorderLevel: 3,
	}

	t.Run("create success", func(t *testing.T) {
		svc := &stubProductService{createRes: created}
		handler := HandleProducts(svc)

		body := `{"sku":"SKU-1","name":"Widget","initial_stock":10,"reorder_level":3,"created_by":"admin"}`
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if svc.lastCreate.SKU != "SKU-1" || svc.lastCreate.InitialStock != 10 {
			t.Fatalf("unexpected input forwarded: %+v", svc.lastCreate)
		}
		if !strings.Contains(rec.Body.String(), `"available":10`) {
			t.Fatalf("expected available in body, got %s", rec.Body.String())
		}
	})

	t.Run("create invalid json", func(t *testing.T) {
		handler := HandleProducts(&stubProductService{})
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"sku":`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("create duplicate sku", func(t *testing.T) {
		handler := HandleProducts(&stubProductService{createErr: domain.ErrProductExists})
		body := `{"sku":"SKU-1","name":"Widget","initial_stock":1,"created_by":"admin"}`
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		svc := &stubProductService{listRes: []domain.Product{created}}
		handler := HandleProducts(svc)

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"sku":"SKU-1"`) {
			t.Fatalf("expected product in list, got %s", rec.Body.String())
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := HandleProducts(&stubProductService{})
		req := httptest.NewRequest(http.MethodDelete, "/products", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleProductRoutes(t *testing.T) {
	t.Parallel()

	product := domain.Product{
		ID:           "p1",
		SKU:          "SKU-1",
		Name:         "Widget",
		Stock:        5,
		Reserved:     2,
		ReorderLevel: 4,
	}

	t.Run("get product", func(t *testing.T) {
		products := &stubProductService{getRes: product}
		handler := HandleProductRoutes(products, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/p1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if products.lastGetID != "p1" {
			t.Fatalf("expected lookup of p1, got %s", products.lastGetID)
		}
		if !strings.Contains(rec.Body.String(), `"low_stock":true`) {
			t.Fatalf("expected low_stock flag, got %s", rec.Body.String())
		}
	})

	t.Run("get product not found", func(t *testing.T) {
		products := &stubProductService{getErr: domain.ErrProductNotFound}
		handler := HandleProductRoutes(products, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("low stock", func(t *testing.T) {
		stock := &stubStockService{lowStockRes: []domain.Product{product}}
		handler := HandleProductRoutes(&stubProductService{}, stock)

		req := httptest.NewRequest(http.MethodGet, "/products/low-stock", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"id":"p1"`) {
			t.Fatalf("expected product in low-stock list, got %s", rec.Body.String())
		}
	})

	t.Run("availability", func(t *testing.T) {
		stock := &stubStockService{availabilityRes: true}
		handler := HandleProductRoutes(&stubProductService{}, stock)

		req := httptest.NewRequest(http.MethodGet, "/products/p1/availability?quantity=3", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if stock.lastAvailabilityID != "p1" || stock.lastAvailabilityQty != 3 {
			t.Fatalf("unexpected call: id=%s qty=%d", stock.lastAvailabilityID, stock.lastAvailabilityQty)
		}
		if !strings.Contains(rec.Body.String(), `"available":true`) {
			t.Fatalf("expected available true, got %s", rec.Body.String())
		}
	})

	t.Run("availability missing quantity", func(t *testing.T) {
		handler := HandleProductRoutes(&stubProductService{}, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/p1/availability", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("movements", func(t *testing.T) {
		stock := &stubStockService{
			historyRes: []domain.Movement{
				{
					ID:            "m1",
					ProductID:     "p1",
					QuantityDelta: 5,
					StockBefore:   0,
					StockAfter:    5,
					Type:          domain.MovementRestock,
					PerformedBy:   "admin",
					CreatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		}
		handler := HandleProductRoutes(&stubProductService{}, stock)

		req := httptest.NewRequest(http.MethodGet, "/products/p1/movements?limit=10", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stock.lastHistoryLimit != 10 {
			t.Fatalf("expected limit 10, got %d", stock.lastHistoryLimit)
		}
		if !strings.Contains(rec.Body.String(), `"movement_type":"restock"`) {
			t.Fatalf("expected movement in body, got %s", rec.Body.String())
		}
	})

	t.Run("movements bad limit", func(t *testing.T) {
		handler := HandleProductRoutes(&stubProductService{}, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/p1/movements?limit=ten", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("adjust", func(t *testing.T) {
		stock := &stubStockService{adjustRes: product}
		handler := HandleProductRoutes(&stubProductService{}, stock)

		body := `{"delta":5,"movement_type":"restock","performed_by":"admin","notes":"weekly delivery"}`
		req := httptest.NewRequest(http.MethodPost, "/products/p1/adjust", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if stock.lastAdjust.ProductID != "p1" || stock.lastAdjust.Delta != 5 {
			t.Fatalf("unexpected adjust input: %+v", stock.lastAdjust)
		}
		if stock.lastAdjust.Type != domain.MovementRestock {
			t.Fatalf("expected restock type, got %s", stock.lastAdjust.Type)
		}
	})

	t.Run("adjust below zero", func(t *testing.T) {
		stock := &stubStockService{adjustErr: domain.ErrNegativeStock}
		handler := HandleProductRoutes(&stubProductService{}, stock)

		body := `{"delta":-100,"movement_type":"damage","performed_by":"admin"}`
		req := httptest.NewRequest(http.MethodPost, "/products/p1/adjust", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("adjust wrong method", func(t *testing.T) {
		handler := HandleProductRoutes(&stubProductService{}, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/p1/adjust", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("unknown subroute", func(t *testing.T) {
		handler := HandleProductRoutes(&stubProductService{}, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/p1/reviews", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		handler := HandleProductRoutes(&stubProductService{}, &stubStockService{})

		req := httptest.NewRequest(http.MethodGet, "/products/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

type stubProductService struct {
	createRes  domain.Product
	createErr  error
	getRes     domain.Product
	getErr     error
	listRes    []domain.Product
	listErr    error
	lastCreate app.CreateProductInput
	lastGetID  string
}

func (s *stubProductService) CreateProduct(_ context.Context, in app.CreateProductInput) (domain.Product, error) {
	s.lastCreate = in
	if s.createErr != nil {
		return domain.Product{}, s.createErr
	}
	return s.createRes, nil
}

func (s *stubProductService) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	s.lastGetID = productID
	if s.getErr != nil {
		return domain.Product{}, s.getErr
	}
	return s.getRes, nil
}

func (s *stubProductService) ListProducts(_ context.Context) ([]domain.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listRes, nil
}

type stubStockService struct {
	availabilityRes bool
	availabilityErr error
	adjustRes       domain.Product
	adjustErr       error
	historyRes      []domain.Movement
	historyErr      error
	lowStockRes     []domain.Product
	lowStockErr     error

	lastAvailabilityID  string
	lastAvailabilityQty int
	lastAdjust          app.AdjustStockInput
	lastHistoryLimit    int
}

func (s *stubStockService) CheckAvailability(_ context.Context, productID string, quantity int) (bool, error) {
	s.lastAvailabilityID = productID
	s.lastAvailabilityQty = quantity
	return s.availabilityRes, s.availabilityErr
}

func (s *stubStockService) AdjustStock(_ context.Context, in app.AdjustStockInput) (domain.Product, error) {
	s.lastAdjust = in
	if s.adjustErr != nil {
		return domain.Product{}, s.adjustErr
	}
	return s.adjustRes, nil
}

func (s *stubStockService) StockHistory(_ context.Context, productID string, limit int) ([]domain.Movement, error) {
	s.lastHistoryLimit = limit
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.historyRes, nil
}

func (s *stubStockService) LowStockProducts(_ context.Context) ([]domain.Product, error) {
	if s.lowStockErr != nil {
		return nil, s.lowStockErr
	}
	return s.lowStockRes, nil
}
