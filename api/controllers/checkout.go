package controllers

import (
	"net/http"

	"github.com/villageessence/marketplace-backend/api/responses"
	"github.com/villageessence/marketplace-backend/api/validators"
	"github.com/villageessence/marketplace-backend/internal/checkout"
	"github.com/villageessence/marketplace-backend/pkg/logger"
)

// Checkout submits the session cart as an order.
func Checkout(svc checkout.Service, factory CartStoreFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreForRequest(factory, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkout.CheckoutInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), store, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
