package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/santhoshgedare/kavyas-inventory/internal/app"
	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

// ProductDirectory is the minimal interface needed to manage products.
type ProductDirectory interface {
	CreateProduct(ctx context.Context, in app.CreateProductInput) (domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// HandleProducts serves POST /products and GET /products.
func HandleProducts(svc ProductDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createProduct(w, r, svc)
		case http.MethodGet:
			listProducts(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createProduct(w http.ResponseWriter, r *http.Request, svc ProductDirectory) {
	var req createProductRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	product, err := svc.CreateProduct(r.Context(), app.CreateProductInput{
		SKU:          req.SKU,
		Name:         req.Name,
		InitialStock: req.InitialStock,
		ReorderLevel: req.ReorderLevel,
		CreatedBy:    req.CreatedBy,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toProductResponse(product))
}

func listProducts(w http.ResponseWriter, r *http.Request, svc ProductDirectory) {
	products, err := svc.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeProductList(w, products)
}

func getProduct(w http.ResponseWriter, r *http.Request, svc ProductDirectory, productID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	product, err := svc.GetProduct(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(toProductResponse(product))
}

func writeProductList(w http.ResponseWriter, products []domain.Product) {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

type createProductRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	InitialStock int    `json:"initial_stock"`
	ReorderLevel int    `json:"reorder_level"`
	CreatedBy    string `json:"created_by"`
}

type productResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Stock        int       `json:"stock"`
	Reserved     int       `json:"reserved"`
	Available    int       `json:"available"`
	ReorderLevel int       `json:"reorder_level"`
	LowStock     bool      `json:"low_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Stock:        p.Stock,
		Reserved:     p.Reserved,
		Available:    p.Available(),
		ReorderLevel: p.ReorderLevel,
		LowStock:     p.LowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
