package controllers

import (
	"net/http"

	"github.com/villageessence/marketplace-backend/api/middleware"
	"github.com/villageessence/marketplace-backend/api/responses"
	"github.com/villageessence/marketplace-backend/api/validators"
	"github.com/villageessence/marketplace-backend/internal/cart"
	"github.com/villageessence/marketplace-backend/internal/catalog"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/logger"
)

// CartStoreFactory builds the session-scoped cart store for a request.
type CartStoreFactory func(sessionID string) (*cart.Store, error)

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartView struct {
	Items []cart.LineItem `json:"items"`
	Total string          `json:"total"`
	Count int             `json:"count"`
}

func newCartView(store *cart.Store, r *http.Request) cartView {
	ctx := r.Context()
	return cartView{
		Items: store.Lines(ctx),
		Total: store.Total(ctx).StringFixed(2),
		Count: store.Count(ctx),
	}
}

func cartStoreForRequest(factory CartStoreFactory, r *http.Request) (*cart.Store, error) {
	sessionID := middleware.CartSessionFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	store, err := factory(sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cart store")
	}
	return store, nil
}

// GetCart returns the session cart contents.
func GetCart(factory CartStoreFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreForRequest(factory, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store, r))
	}
}

// AddToCart adds a product to the session cart, clamped to current stock.
func AddToCart(factory CartStoreFactory, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreForRequest(factory, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := parseBodyUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := catalogSvc.Snapshot(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Add(r.Context(), snapshot, payload.Quantity)
		responses.WriteSuccess(w, newCartView(store, r))
	}
}

// UpdateCartItem changes a line's quantity, clamped to the line's stock.
func UpdateCartItem(factory CartStoreFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreForRequest(factory, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), productID, payload.Quantity)
		responses.WriteSuccess(w, newCartView(store, r))
	}
}

// RemoveCartItem deletes a line from the session cart.
func RemoveCartItem(factory CartStoreFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreForRequest(factory, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Remove(r.Context(), productID)
		responses.WriteSuccess(w, newCartView(store, r))
	}
}

// ClearCart empties the session cart.
func ClearCart(factory CartStoreFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreForRequest(factory, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(r.Context())
		responses.WriteSuccess(w, newCartView(store, r))
	}
}
