package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/api/validators"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/shops"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

type shopRequest struct {
	ShopName      string   `json:"shop_name" validate:"required"`
	OwnerName     string   `json:"owner_name" validate:"required"`
	Address       string   `json:"address" validate:"required"`
	MobileNumbers []string `json:"mobile_numbers" validate:"omitempty,max=3,dive,len=11,numeric"`
}

func (r shopRequest) toInput() shops.ShopInput {
	return shops.ShopInput{
		ShopName:      r.ShopName,
		OwnerName:     r.OwnerName,
		Address:       r.Address,
		MobileNumbers: r.MobileNumbers,
	}
}

func ShopCreate(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func ShopList(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

func ShopGet(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.Get(r.Context(), chi.URLParam(r, "shop"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func ShopUpdate(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), chi.URLParam(r, "shop"), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

type cartDropper interface {
	Drop(shop string)
}

// ShopDelete removes the shop folder and forgets any open cart for it.
func ShopDelete(svc shops.Service, carts cartDropper, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shop service unavailable"))
			return
		}

		shop := chi.URLParam(r, "shop")
		if err := svc.Delete(r.Context(), shop); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if carts != nil {
			carts.Drop(shop)
		}
		responses.WriteSuccess(w, map[string]string{"deleted": shop})
	}
}
