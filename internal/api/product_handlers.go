package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pizzeria/internal/db"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/service"
)

type ProductHandler struct {
	Service *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{Service: svc}
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	Image       string  `json:"image"`
	Available   *bool   `json:"available"`
	Vegetarian  *bool   `json:"vegetarian"`
}

func (req *productRequest) toModel(id int) *db.Product {
	p := &db.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Image:       req.Image,
		Available:   true,
	}
	if req.Available != nil {
		p.Available = *req.Available
	}
	if req.Vegetarian != nil {
		p.Vegetarian = *req.Vegetarian
	}
	return p
}

type productResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	Image       string  `json:"image"`
	Available   bool    `json:"available"`
	Vegetarian  bool    `json:"vegetarian"`
}

func toProductResponse(p *db.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Type:        p.Type,
		Image:       p.Image,
		Available:   p.Available,
		Vegetarian:  p.Vegetarian,
	}
}

func toProductResponses(products []db.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *ProductHandler) ListProductsByType(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListByType(mux.Vars(r)["type"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid product ID"))
		return
	}
	product, err := h.Service.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.Validation("Invalid request body"))
		return
	}
	product := req.toModel(0)
	if err := h.Service.Create(product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created",
		"product": toProductResponse(product),
	})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid product ID"))
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.Validation("Invalid request body"))
		return
	}
	product := req.toModel(id)
	if err := h.Service.Update(product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated",
		"product": toProductResponse(product),
	})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid product ID"))
		return
	}
	if err := h.Service.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
