package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/santhoshgedare/kavyas-inventory/internal/app"
	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

// StockReserver is the minimal interface needed to place a hold.
type StockReserver interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Reservation, error)
}

// ReservationSettler is the minimal interface needed to finish a hold.
type ReservationSettler interface {
	Commit(ctx context.Context, reservationID, orderID string) (domain.Reservation, error)
	Cancel(ctx context.Context, reservationID string) (domain.Reservation, error)
}

// HandleCreateReservation serves POST /reservations.
func HandleCreateReservation(svc StockReserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createReservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		ttl := time.Duration(req.TTLSeconds) * time.Second
		reservation, err := svc.Reserve(r.Context(), app.ReserveInput{
			ProductID: req.ProductID,
			HolderID:  req.HolderID,
			Quantity:  req.Quantity,
			TTL:       ttl,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toReservationResponse(reservation))
	}
}

// HandleReservationActions serves POST /reservations/{id}/commit and
// POST /reservations/{id}/cancel.
func HandleReservationActions(svc ReservationSettler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		reservationID, action, ok := parseReservationPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "commit":
			var req commitReservationRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			reservation, err := svc.Commit(r.Context(), reservationID, req.OrderID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(toReservationResponse(reservation))

		case "cancel":
			reservation, err := svc.Cancel(r.Context(), reservationID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(toReservationResponse(reservation))

		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func parseReservationPath(path string) (reservationID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "reservations" || parts[1] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type createReservationRequest struct {
	ProductID  string `json:"product_id"`
	HolderID   string `json:"holder_id"`
	Quantity   int    `json:"quantity"`
	TTLSeconds int    `json:"ttl_seconds"`
}

type commitReservationRequest struct {
	OrderID string `json:"order_id"`
}

type reservationResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	HolderID   string    `json:"holder_id"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	ReservedAt time.Time `json:"reserved_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	OrderID    string    `json:"order_id,omitempty"`
}

func toReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		HolderID:   r.HolderID,
		Quantity:   r.Quantity,
		Status:     string(r.Status),
		ReservedAt: r.ReservedAt,
		ExpiresAt:  r.ExpiresAt,
		OrderID:    r.OrderID,
	}
}
