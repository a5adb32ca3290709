package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/api/validators"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

type itemRequest struct {
	Name       string   `json:"name" validate:"required"`
	Categories []string `json:"categories" validate:"required,min=1"`
	Quantity   int      `json:"quantity" validate:"gte=0"`
	Price      float64  `json:"price" validate:"gte=0"`
}

func (r itemRequest) toInput() inventory.ItemInput {
	return inventory.ItemInput{
		Name:       r.Name,
		Categories: r.Categories,
		Quantity:   r.Quantity,
		Price:      decimal.NewFromFloat(r.Price),
	}
}

// itemResponse renders an item with the price as a JSON number, the
// same shape the inventory file uses.
type itemResponse struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Quantity   int      `json:"quantity"`
	Price      float64  `json:"price"`
}

func toItemResponse(item inventory.Item) itemResponse {
	price, _ := item.Price.Float64()
	return itemResponse{
		Name:       item.Name,
		Categories: item.Categories,
		Quantity:   item.Quantity,
		Price:      price,
	}
}

func toItemResponses(items []inventory.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := inventory.Filter{
			Query:    r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
		}
		items, err := svc.List(r.Context(), chi.URLParam(r, "shop"), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponses(items))
	}
}

func InventoryAdd(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), chi.URLParam(r, "shop"), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toItemResponse(*item))
	}
}

func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), chi.URLParam(r, "shop"), chi.URLParam(r, "item"), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponse(*item))
	}
}

func InventoryDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := chi.URLParam(r, "item")
		if err := svc.Delete(r.Context(), chi.URLParam(r, "shop"), item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": item})
	}
}

func InventoryCategories(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context(), chi.URLParam(r, "shop"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func InventoryTotals(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := svc.Totals(r.Context(), chi.URLParam(r, "shop"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}
