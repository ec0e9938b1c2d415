package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/santhoshgedare/kavyas-inventory/internal/app"
	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

// StockManager is the slice of the inventory service used by product
// subroutes: availability checks, adjustments, history and low-stock reads.
type StockManager interface {
	CheckAvailability(ctx context.Context, productID string, quantity int) (bool, error)
	AdjustStock(ctx context.Context, in app.AdjustStockInput) (domain.Product, error)
	StockHistory(ctx context.Context, productID string, limit int) ([]domain.Movement, error)
	LowStockProducts(ctx context.Context) ([]domain.Product, error)
}

// HandleProductRoutes serves everything under /products/:
//
//	GET  /products/low-stock
//	GET  /products/{id}
//	GET  /products/{id}/availability?quantity=N
//	GET  /products/{id}/movements?limit=N
//	POST /products/{id}/adjust
func HandleProductRoutes(products ProductDirectory, stock StockManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 || parts[0] != "products" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case len(parts) == 2 && parts[1] == "low-stock":
			lowStockProducts(w, r, stock)
		case len(parts) == 2:
			getProduct(w, r, products, parts[1])
		case len(parts) == 3 && parts[2] == "availability":
			checkAvailability(w, r, stock, parts[1])
		case len(parts) == 3 && parts[2] == "movements":
			stockHistory(w, r, stock, parts[1])
		case len(parts) == 3 && parts[2] == "adjust":
			adjustStock(w, r, stock, parts[1])
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func lowStockProducts(w http.ResponseWriter, r *http.Request, svc StockManager) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	products, err := svc.LowStockProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeProductList(w, products)
}

func checkAvailability(w http.ResponseWriter, r *http.Request, svc StockManager, productID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, "quantity must be an integer")
		return
	}

	available, err := svc.CheckAvailability(r.Context(), productID, quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(availabilityResponse{
		ProductID: productID,
		Quantity:  quantity,
		Available: available,
	})
}

func stockHistory(w http.ResponseWriter, r *http.Request, svc StockManager, productID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "limit must be an integer")
			return
		}
		limit = parsed
	}

	movements, err := svc.StockHistory(r.Context(), productID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			QuantityDelta: m.QuantityDelta,
			StockBefore:   m.StockBefore,
			StockAfter:    m.StockAfter,
			Type:          string(m.Type),
			ReferenceID:   m.ReferenceID,
			PerformedBy:   m.PerformedBy,
			Notes:         m.Notes,
			CreatedAt:     m.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

func adjustStock(w http.ResponseWriter, r *http.Request, svc StockManager, productID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req adjustStockRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	product, err := svc.AdjustStock(r.Context(), app.AdjustStockInput{
		ProductID:   productID,
		Delta:       req.Delta,
		Type:        domain.MovementType(req.MovementType),
		PerformedBy: req.PerformedBy,
		ReferenceID: req.ReferenceID,
		Notes:       req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(toProductResponse(product))
}

type availabilityResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

type adjustStockRequest struct {
	Delta        int    `json:"delta"`
	MovementType string `json:"movement_type"`
	PerformedBy  string `json:"performed_by"`
	ReferenceID  string `json:"reference_id"`
	Notes        string `json:"notes"`
}

type movementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	QuantityDelta int       `json:"quantity_delta"`
	StockBefore   int       `json:"stock_before"`
	StockAfter    int       `json:"stock_after"`
	Type          string    `json:"movement_type"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	PerformedBy   string    `json:"performed_by"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
