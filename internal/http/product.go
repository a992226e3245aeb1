package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"salesauth/internal/service"
	"salesauth/pkg/httpx"
	"salesauth/pkg/slogx"
)

type ProductHandler struct {
	ProductService *service.ProductService
}

type addProductRequest struct {
	Name string `json:"name"`
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type productMessageResponse struct {
	Message string `json:"message"`
}

// HandleAdd creates a product. Requires the Sales Manager role, enforced by
// middleware before this runs.
func (h *ProductHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, productMessageResponse{
			Message: "Invalid request",
		})
		return
	}

	_, err := h.ProductService.Add(ctx, req.Name)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, productMessageResponse{
			Message: "Product added successfully",
		})
	case errors.Is(err, service.ErrProductExists):
		httpx.WriteJSON(w, http.StatusBadRequest, productMessageResponse{
			Message: "Product already exists",
		})
	case errors.Is(err, service.ErrInvalidProduct):
		httpx.WriteJSON(w, http.StatusBadRequest, productMessageResponse{
			Message: "Product name is required",
		})
	default:
		log.Error("failed to add product", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, productMessageResponse{
			Message: "Failed to add product",
		})
	}
}

// HandleList returns all products that have not been soft deleted.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	products, err := h.ProductService.ListAll(ctx)
	if err != nil {
		log.Error("failed to list products", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, productMessageResponse{
			Message: "Failed to retrieve products",
		})
		return
	}

	response := make([]productResponse, len(products))
	for i, p := range products {
		response[i] = productResponse{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
