package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/api/validators"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/checkout"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

type commitRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=txt pdf print"`
}

// CheckoutCommit applies the shop's cart against inventory and issues a
// receipt. The body is optional; an absent format means a text receipt.
func CheckoutCommit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commitRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Commit(r.Context(), chi.URLParam(r, "shop"), checkout.OutputFormat(req.Format))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
