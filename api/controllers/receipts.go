package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/receipts"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

func ReceiptList(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issued, err := svc.List(r.Context(), chi.URLParam(r, "shop"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, issued)
	}
}
