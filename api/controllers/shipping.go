package controllers

import (
	"net/http"

	"github.com/turboost/turboost-backend/api/middleware"
	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/api/validators"
	cartsvc "github.com/turboost/turboost-backend/internal/cart"
	shippingsvc "github.com/turboost/turboost-backend/internal/shipping"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

type setPostalCodeRequest struct {
	PostalCode string `json:"postal_code" validate:"required"`
}

// ShippingSetPostalCode records the destination and fetches carrier
// quotes for the cart as it stands right now.
func ShippingSetPostalCode(sessions *shippingsvc.Manager, carts *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping unavailable"))
			return
		}

		var payload setPostalCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := sessionCart(w, r, carts, logg)
		if err != nil {
			return
		}

		session := sessions.Get(middleware.SessionIDFromContext(ctx))
		if _, err := session.SetPostalCode(ctx, payload.PostalCode, store.Lines(), store.Revision()); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShippingResponse(session))
	}
}

// ShippingOptions returns the current quote session state.
func ShippingOptions(sessions *shippingsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session missing"))
			return
		}

		responses.WriteSuccess(w, newShippingResponse(sessions.Get(sessionID)))
	}
}

type selectQuoteRequest struct {
	CarrierCode string `json:"carrier_code" validate:"required"`
}

// ShippingSelect picks one of the quoted carriers.
func ShippingSelect(sessions *shippingsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping unavailable"))
			return
		}

		var payload selectQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session missing"))
			return
		}

		session := sessions.Get(sessionID)
		if _, err := session.Select(payload.CarrierCode); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShippingResponse(session))
	}
}

type shippingResponse struct {
	State      string              `json:"state"`
	PostalCode string              `json:"postal_code,omitempty"`
	Quotes     []shippingsvc.Quote `json:"quotes"`
	Selection  *shippingsvc.Quote  `json:"selection,omitempty"`
}

func newShippingResponse(session *shippingsvc.Session) shippingResponse {
	resp := shippingResponse{
		State:      string(session.State()),
		PostalCode: session.PostalCode(),
		Quotes:     session.Quotes(),
	}
	if selected, ok := session.Selection(); ok {
		resp.Selection = &selected
	}
	return resp
}
